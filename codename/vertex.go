package codename

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

var ErrEmptyReply = errors.New("model returned no codename")

// VertexGenerator asks a Vertex AI Gemini model for a codename.
type VertexGenerator struct {
	client   *http.Client
	endpoint string
}

type VertexOption func(*VertexGenerator)

// WithHTTPClient replaces the credential backed client.
func WithHTTPClient(client *http.Client) VertexOption {
	return func(vg *VertexGenerator) {
		vg.client = client
	}
}

// WithEndpoint overrides the generateContent URL.
func WithEndpoint(endpoint string) VertexOption {
	return func(vg *VertexGenerator) {
		vg.endpoint = endpoint
	}
}

// WithTokenSource authenticates requests with ts instead of application
// default credentials.
func WithTokenSource(ctx context.Context, ts oauth2.TokenSource) VertexOption {
	return func(vg *VertexGenerator) {
		vg.client = oauth2.NewClient(ctx, ts)
	}
}

// NewVertexGenerator builds a generator for the given project, location and
// model. Without WithHTTPClient or WithTokenSource it looks up application
// default credentials.
func NewVertexGenerator(ctx context.Context, projectID, location, model string, options ...VertexOption) (*VertexGenerator, error) {
	if projectID == "" || location == "" || model == "" {
		return nil, errors.New("[NewVertexGenerator] project, location and model are required")
	}

	vg := &VertexGenerator{
		endpoint: fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
			location, projectID, location, model),
	}
	for _, opt := range options {
		opt(vg)
	}

	if vg.client == nil {
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("[NewVertexGenerator] FindDefaultCredentials: %w", err)
		}
		vg.client = oauth2.NewClient(ctx, creds.TokenSource)
	}
	return vg, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (vg *VertexGenerator) Generate(ctx context.Context, existing []string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt(existing)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("[VertexGenerator Generate] marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, vg.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("[VertexGenerator Generate] new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := vg.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("[VertexGenerator Generate] request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(msg)).Msg("codename request rejected")
		return "", fmt.Errorf("[VertexGenerator Generate] unexpected status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("[VertexGenerator Generate] decode: %w", err)
	}

	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			if name := firstTwoWords(p.Text); name != "" {
				return name, nil
			}
		}
	}
	return "", ErrEmptyReply
}

func prompt(existing []string) string {
	var sb strings.Builder
	sb.WriteString("Invent a codename for a secret agent gadget. Reply with exactly two capitalised words and nothing else.")
	if len(existing) > 0 {
		sb.WriteString(" Do not use any of these names: ")
		sb.WriteString(strings.Join(existing, ", "))
		sb.WriteString(".")
	}
	return sb.String()
}

func firstTwoWords(text string) string {
	words := strings.Fields(strings.Trim(text, " \n\t\"'`.*"))
	if len(words) == 0 {
		return ""
	}
	if len(words) > 2 {
		words = words[:2]
	}
	for i, w := range words {
		words[i] = strings.Trim(w, "\"'`.,*")
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
