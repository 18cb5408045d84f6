package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-gadget-server/codename"
	fakegadgetrepo "github.com/jrsteele09/go-gadget-server/gadgets/repofake"
	"github.com/jrsteele09/go-gadget-server/internal/config"
	"github.com/jrsteele09/go-gadget-server/server"
	fakeuserrepo "github.com/jrsteele09/go-gadget-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	agentEmail    = "bond@mi6.gov.uk"
	agentPassword = "shaken-not-stirred"
)

type testServer struct {
	t   *testing.T
	srv *server.Server
}

func newTestServer(t *testing.T, env map[string]string) *testServer {
	t.Helper()
	t.Setenv("ENV", "TEST")
	for k, v := range env {
		t.Setenv(k, v)
	}

	srv, err := server.New(config.New(), server.Dependencies{
		Users:     fakeuserrepo.NewFakeUserRepo(),
		Gadgets:   fakegadgetrepo.NewFakeGadgetRepo(),
		Codenames: codename.NewWordList(),
	})
	require.NoError(t, err)
	return &testServer{t: t, srv: srv}
}

func (ts *testServer) do(method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}

	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(c)
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	t.Fatalf("no refreshToken cookie in response")
	return nil
}

// login registers the agent and returns the access token and refresh cookie.
func (ts *testServer) login() (string, *http.Cookie) {
	ts.t.Helper()
	rec := ts.do("POST", "/users", map[string]string{"email": agentEmail, "password": agentPassword})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do("POST", "/auth", map[string]string{"email": agentEmail, "password": agentPassword})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[server.LoginResponse](ts.t, rec).AccessToken, refreshCookie(ts.t, rec)
}

func TestRegistrationAndLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do("POST", "/users", map[string]string{"email": agentEmail, "password": agentPassword})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "User with email "+agentEmail+" created successfully!", decode[server.MessageResponse](t, rec).Message)

	t.Run("password longer than 72 bytes", func(t *testing.T) {
		long := strings.Repeat("p", 73)
		rec := ts.do("POST", "/users", map[string]string{"email": "q@mi6.gov.uk", "password": long})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = ts.do("POST", "/auth", map[string]string{"email": "q@mi6.gov.uk", "password": long})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := ts.do("POST", "/users", map[string]string{"email": agentEmail, "password": "other"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[server.ErrorResponse](t, rec)
		require.Equal(t, "VALIDATION", body.Code)
		require.Equal(t, http.StatusBadRequest, body.Status)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := ts.do("POST", "/users", map[string]string{"email": "not-an-email", "password": "x"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Please provide a valid email address!", decode[server.ErrorResponse](t, rec).Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/auth", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		ts.srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		rec := ts.do("POST", "/auth", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email and password are required!", decode[server.ErrorResponse](t, rec).Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := ts.do("POST", "/auth", map[string]string{"email": "q@mi6.gov.uk", "password": "x"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "NOT_FOUND", decode[server.ErrorResponse](t, rec).Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := ts.do("POST", "/auth", map[string]string{"email": agentEmail, "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("success sets refresh cookie only", func(t *testing.T) {
		rec := ts.do("POST", "/auth", map[string]string{"email": agentEmail, "password": agentPassword})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[server.LoginResponse](t, rec)
		require.NotEmpty(t, body.AccessToken)
		require.Equal(t, agentEmail, body.User.Email)
		require.NotEmpty(t, body.User.ID)
		require.NotContains(t, rec.Body.String(), "refreshToken")
		require.NotContains(t, rec.Body.String(), "password")

		cookie := refreshCookie(t, rec)
		require.NotEmpty(t, cookie.Value)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
		require.False(t, cookie.Secure)
		require.Equal(t, 7*24*60*60, cookie.MaxAge)
	})
}

func TestProtectedRoutesRequireAccessToken(t *testing.T) {
	ts := newTestServer(t, nil)
	access, refresh := ts.login()

	rec := ts.do("GET", "/gadgets", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "No token", decode[server.ErrorResponse](t, rec).Message)

	rec = ts.do("GET", "/gadgets", nil, func(r *http.Request) { r.Header.Set("Authorization", "Token "+access) })
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do("GET", "/gadgets", nil, bearer("garbage"))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Forbidden", decode[server.ErrorResponse](t, rec).Message)

	rec = ts.do("POST", "/gadgets", nil, bearer(refresh.Value))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do("POST", "/gadgets", nil, bearer(access))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestGadgetLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	access, _ := ts.login()
	auth := bearer(access)

	rec := ts.do("GET", "/gadgets", nil, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "NOT_FOUND", decode[server.ErrorResponse](t, rec).Code)
	require.Equal(t, "No gadgets found in the inventory!", decode[server.ErrorResponse](t, rec).Message)

	rec = ts.do("POST", "/gadgets", nil, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[server.GadgetResponse](t, rec).Gadget
	require.Equal(t, "AVAILABLE", string(created.Status))
	require.NotEmpty(t, created.Name)
	require.Nil(t, created.DecommissionedOn)
	id := created.ID

	rec = ts.do("POST", "/gadgets", nil, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEqual(t, created.Name, decode[server.GadgetResponse](t, rec).Gadget.Name)

	t.Run("list with probabilities", func(t *testing.T) {
		rec := ts.do("GET", "/gadgets", nil, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[server.GadgetListResponse](t, rec).Gadgets
		require.Len(t, list, 2)
		for _, g := range list {
			require.GreaterOrEqual(t, g.SuccessProbability, 0)
			require.LessOrEqual(t, g.SuccessProbability, 100)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		rec := ts.do("GET", "/gadgets?status=DESTROYED", nil, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "No gadgets with status DESTROYED found in the inventory!", decode[server.ErrorResponse](t, rec).Message)

		rec = ts.do("GET", "/gadgets?status=BROKEN", nil, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "VALIDATION", decode[server.ErrorResponse](t, rec).Code)
	})

	t.Run("rename and deploy", func(t *testing.T) {
		rec := ts.do("PATCH", "/gadgets", map[string]string{"id": id, "newName": "Golden Gun", "newStatus": "DEPLOYED"}, auth)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		g := decode[server.GadgetResponse](t, rec).Gadget
		require.Equal(t, "Golden Gun", g.Name)
		require.Equal(t, "DEPLOYED", string(g.Status))
	})

	t.Run("update of unknown gadget changes nothing", func(t *testing.T) {
		type entry struct{ id, name, status string }
		snapshot := func() []entry {
			rec := ts.do("GET", "/gadgets", nil, auth)
			require.Equal(t, http.StatusOK, rec.Code)
			var out []entry
			for _, g := range decode[server.GadgetListResponse](t, rec).Gadgets {
				out = append(out, entry{g.ID, g.Name, string(g.Status)})
			}
			return out
		}
		before := snapshot()

		rec := ts.do("PATCH", "/gadgets", map[string]string{"id": "missing", "newName": "X"}, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		errBody := decode[server.ErrorResponse](t, rec)
		require.Equal(t, "NOT_FOUND", errBody.Code)
		require.Equal(t, "Gadget with id missing not found!", errBody.Message)

		require.ElementsMatch(t, before, snapshot())
	})

	t.Run("update without id", func(t *testing.T) {
		rec := ts.do("PATCH", "/gadgets", map[string]string{"newName": "x"}, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Gadget ID is required to update a gadget!", decode[server.ErrorResponse](t, rec).Message)
	})

	t.Run("decommission stamps the time", func(t *testing.T) {
		rec := ts.do("DELETE", "/gadgets/"+id, nil, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		g := decode[server.GadgetResponse](t, rec).Gadget
		require.Equal(t, "DECOMMISSIONED", string(g.Status))
		require.NotNil(t, g.DecommissionedOn)

		rec = ts.do("GET", "/gadgets?status=decommissioned", nil, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decode[server.GadgetListResponse](t, rec).Gadgets, 1)
	})

	t.Run("decommissioned gadget cannot return to service", func(t *testing.T) {
		rec := ts.do("PATCH", "/gadgets", map[string]string{"id": id, "newStatus": "AVAILABLE"}, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "VALIDATION", decode[server.ErrorResponse](t, rec).Code)
	})

	t.Run("self-destruct requires a code but any code works", func(t *testing.T) {
		rec := ts.do("POST", "/gadgets/"+id+"/self-destruct", nil, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Confirmation code required!", decode[server.ErrorResponse](t, rec).Message)

		rec = ts.do("POST", "/gadgets/"+id+"/self-destruct", map[string]string{"confirmationCode": "anything"}, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		g := decode[server.GadgetResponse](t, rec).Gadget
		require.Equal(t, "DESTROYED", string(g.Status))
		require.NotNil(t, g.DecommissionedOn)

		rec = ts.do("GET", "/gadgets?status=DESTROYED", nil, auth)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[server.GadgetListResponse](t, rec).Gadgets
		require.Len(t, list, 1)
		require.Equal(t, id, list[0].ID)
	})

	t.Run("unknown gadget", func(t *testing.T) {
		rec := ts.do("DELETE", "/gadgets/missing", nil, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "NOT_FOUND", decode[server.ErrorResponse](t, rec).Code)

		rec = ts.do("POST", "/gadgets/missing/self-destruct", map[string]string{"confirmationCode": "x"}, auth)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Gadget with id missing not found!", decode[server.ErrorResponse](t, rec).Message)
	})
}

func TestUpdateUser(t *testing.T) {
	ts := newTestServer(t, nil)
	access, _ := ts.login()

	rec := ts.do("POST", "/auth", map[string]string{"email": agentEmail, "password": agentPassword})
	id := decode[server.LoginResponse](t, rec).User.ID

	rec = ts.do("PATCH", "/users", map[string]string{"id": id, "email": "007@mi6.gov.uk", "password": "new-pass"}, bearer(access))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do("POST", "/auth", map[string]string{"email": "007@mi6.gov.uk", "password": "new-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, id, decode[server.LoginResponse](t, rec).User.ID)

	rec = ts.do("PATCH", "/users", map[string]string{"id": "nobody", "email": "x@mi6.gov.uk", "password": "p"}, bearer(access))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do("PATCH", "/users", map[string]string{"id": id}, bearer(access))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	ts := newTestServer(t, nil)
	access, refresh := ts.login()

	rec := ts.do("GET", "/auth/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do("GET", "/auth/refresh", nil, withCookie(&http.Cookie{Name: "refreshToken", Value: access}))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do("GET", "/auth/refresh", nil, withCookie(refresh))
	require.Equal(t, http.StatusOK, rec.Code)
	renewed := decode[server.RefreshResponse](t, rec).AccessToken
	require.NotEmpty(t, renewed)

	rec = ts.do("POST", "/gadgets", nil, bearer(renewed))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("logout without cookie", func(t *testing.T) {
		rec := ts.do("POST", "/auth/logout", nil, bearer(access))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		rec := ts.do("POST", "/auth/logout", nil, bearer(access), withCookie(refresh))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "User logged out successfully!", decode[server.MessageResponse](t, rec).Message)

		cleared := refreshCookie(t, rec)
		require.Empty(t, cleared.Value)
		require.Less(t, cleared.MaxAge, 0)
		require.True(t, cleared.HttpOnly)
	})

	t.Run("logout requires an access token", func(t *testing.T) {
		rec := ts.do("POST", "/auth/logout", nil, withCookie(refresh))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLoginRateLimited(t *testing.T) {
	ts := newTestServer(t, map[string]string{"RATE_LIMIT_REQUESTS": "2", "RATE_LIMIT_WINDOW": "1m"})

	for i := 0; i < 2; i++ {
		rec := ts.do("POST", "/auth", map[string]string{"email": agentEmail, "password": agentPassword})
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec := ts.do("POST", "/auth", map[string]string{"email": agentEmail, "password": agentPassword})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "RATE_LIMITED", decode[server.ErrorResponse](t, rec).Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))

	rec = ts.do("POST", "/auth", map[string]string{"email": agentEmail, "password": agentPassword}, func(r *http.Request) {
		r.RemoteAddr = "203.0.113.7:5555"
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do("GET", "/nowhere", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"message":"404 Not Found"}`, rec.Body.String())

	rec = ts.do("GET", "/nowhere", nil, func(r *http.Request) { r.Header.Set("Accept", "text/html") })
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "404 Not Found", rec.Body.String())

	rec = ts.do("PUT", "/gadgets", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCorsPreflight(t *testing.T) {
	ts := newTestServer(t, map[string]string{"ALLOWED_ORIGINS": "http://localhost:3000"})

	rec := ts.do("OPTIONS", "/gadgets", nil, func(r *http.Request) { r.Header.Set("Origin", "http://localhost:3000") })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = ts.do("OPTIONS", "/gadgets", nil, func(r *http.Request) { r.Header.Set("Origin", "http://evil.example") })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverMiddleware(t *testing.T) {
	ts := newTestServer(t, nil)

	handler := ts.srv.RecoverMiddleware(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/gadgets", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "UNKNOWN", decode[server.ErrorResponse](t, rec).Code)
}

func TestRecoveredPanicIsCounted(t *testing.T) {
	ts := newTestServer(t, nil)

	handler := server.ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}, ts.srv.APIMiddleware()...)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/gadgets", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = ts.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `gadget_http_requests_total{method="GET",path="unmatched",status="500"} 1`)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	access, _ := ts.login()
	ts.do("POST", "/gadgets", nil, bearer(access))

	rec := ts.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `gadget_http_requests_total{method="POST",path="POST /gadgets",status="201"} 1`)
	require.Contains(t, body, `gadget_auth_events_total{event="login",outcome="success"} 1`)
	require.Contains(t, body, `gadget_status_transitions_total{status="AVAILABLE"} 1`)
}
