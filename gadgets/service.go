package gadgets

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
	"github.com/jrsteele09/go-gadget-server/internal/utils"
)

// CodenameGenerator proposes a name for a new gadget that is not in existing.
type CodenameGenerator interface {
	Generate(ctx context.Context, existing []string) (string, error)
}

// UpdateRequest carries the optional replacements for a gadget. Nil or empty
// fields keep their current value.
type UpdateRequest struct {
	ID        string  `json:"id"`
	NewName   *string `json:"newName,omitempty"`
	NewStatus *string `json:"newStatus,omitempty"`
}

// Service is the gadget lifecycle engine.
type Service struct {
	repo        Repo
	codenames   CodenameGenerator
	nowTime     func() time.Time // injectable for testing
	probability func() int       // success probability in [0, 100]
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithProbability replaces the random success probability source.
func WithProbability(probability func() int) ServiceOption {
	return func(s *Service) {
		s.probability = probability
	}
}

func NewService(repo Repo, codenames CodenameGenerator, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[gadgets NewService] gadget repo is required")
	}
	if codenames == nil {
		return nil, errors.New("[gadgets NewService] codename generator is required")
	}

	s := &Service{
		repo:        repo,
		codenames:   codenames,
		nowTime:     time.Now,
		probability: func() int { return rand.IntN(101) },
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Create adds a gadget in AVAILABLE under a freshly generated codename.
func (s *Service) Create(ctx context.Context) (*Gadget, error) {
	names, err := s.repo.Names(ctx)
	if err != nil {
		return nil, creationFailed(err)
	}

	name, err := s.codenames.Generate(ctx, names)
	if err != nil {
		return nil, creationFailed(err)
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, apperrors.New(ErrEmptyCodename, "Codename could not be generated")
	}

	gadget := &Gadget{Name: name, Status: StatusAvailable}
	if err := s.repo.Create(ctx, gadget); err != nil {
		return nil, creationFailed(err)
	}
	return gadget, nil
}

// List returns gadgets, optionally filtered by status, each with a fresh
// success probability.
func (s *Service) List(ctx context.Context, status string) ([]Listing, error) {
	var filter Status
	if status != "" {
		parsed, ok := ParseStatus(status)
		if !ok {
			return nil, apperrors.Newf(apperrors.ErrValidation, "Unknown gadget status %s!", status)
		}
		filter = parsed
	}

	found, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[gadgets List]")
	}
	if len(found) == 0 {
		if filter != "" {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "No gadgets with status %s found in the inventory!", filter)
		}
		return nil, apperrors.New(apperrors.ErrNotFound, "No gadgets found in the inventory!")
	}

	listings := make([]Listing, 0, len(found))
	for _, g := range found {
		listings = append(listings, Listing{Gadget: *g, SuccessProbability: s.probability()})
	}
	return listings, nil
}

// Update replaces the name and/or status of a gadget.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Gadget, error) {
	if req.ID == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "Gadget ID is required to update a gadget!")
	}

	gadget, err := s.get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(utils.Value(req.NewName)); name != "" {
		gadget.Name = name
	}
	if raw := utils.Value(req.NewStatus); raw != "" {
		status, ok := ParseStatus(raw)
		if !ok {
			return nil, apperrors.Newf(apperrors.ErrValidation, "Unknown gadget status %s!", raw)
		}
		if err := gadget.TransitionTo(status, s.nowTime()); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, gadget, "updated")
}

// Decommission moves a gadget to DECOMMISSIONED and stamps the time. Repeating
// it re-stamps the time.
func (s *Service) Decommission(ctx context.Context, id string) (*Gadget, error) {
	gadget, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := gadget.TransitionTo(StatusDecommissioned, s.nowTime()); err != nil {
		return nil, err
	}
	return s.save(ctx, gadget, "removed")
}

// SelfDestruct moves a gadget to DESTROYED. The confirmation code must be
// present but its value is not checked.
func (s *Service) SelfDestruct(ctx context.Context, id, confirmationCode string) (*Gadget, error) {
	gadget, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if confirmationCode == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "Confirmation code required!")
	}
	if err := gadget.TransitionTo(StatusDestroyed, s.nowTime()); err != nil {
		return nil, err
	}
	return s.save(ctx, gadget, "self-destructed")
}

func (s *Service) get(ctx context.Context, id string) (*Gadget, error) {
	gadget, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, notFoundError(id)
		}
		return nil, apperrors.Wrapf(err, "[gadgets get] %s", id)
	}
	return gadget, nil
}

func (s *Service) save(ctx context.Context, gadget *Gadget, verb string) (*Gadget, error) {
	if err := s.repo.Update(ctx, gadget); err != nil {
		return nil, apperrors.Wrapf(
			apperrors.Newf(apperrors.ErrUpdateFailed, "Gadget with id %s could not be %s!", gadget.ID, verb),
			"[gadgets save] %v", err)
	}
	return gadget, nil
}

func creationFailed(err error) error {
	return apperrors.Wrapf(apperrors.New(apperrors.ErrCreationFailed, "Gadget could not be created"), "[gadgets Create] %v", err)
}
