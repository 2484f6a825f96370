package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freecode/internal/app/service"
	"freecode/internal/common/security"
	"freecode/internal/domain/model"
	"freecode/internal/domain/repository"
	"freecode/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	tokens  *security.TokenService
}

func newTestServer(t *testing.T, burst int) *testServer {
	t.Helper()

	judgeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req judge.ExecuteRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.InputData == "" {
			w.Write([]byte(`{"test_results":[{"test_passed":true},{"test_passed":false},{"test_passed":true}]}`))
			return
		}
		w.Write([]byte(`{"test_results":[{"input":"1 2","expected_output":"3","user_output":"3","test_passed":true}]}`))
	}))
	t.Cleanup(judgeSrv.Close)

	tokens, err := security.NewTokenService([]byte("router-test-secret"))
	require.NoError(t, err)

	problems := service.NewProblemService(model.Catalog())
	authService := service.NewAuthService(repository.NewMemoryUserRepository(), tokens)
	execService := service.NewExecutionJobService(judge.NewClient(judgeSrv.URL), repository.NewMemoryExecutionJobRepository(10), problems)

	h := NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		AuthRatePerSec: 0.001,
		AuthRateBurst:  burst,
	}, tokens, authService, problems, execService)
	return &testServer{t: t, handler: h, tokens: tokens}
}

func (s *testServer) do(method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signupAndLogin(email, role string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/signup", `{"email":"`+email+`","password":"pw","role":"`+role+`"}`, nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"pw"}`, nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp service.AuthResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(s.t, role, resp.Role)
	return resp.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 100)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestSignupAndLoginFlow(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"pw","role":"user"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered", rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/signup", `{"email":"","password":"pw"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid password", rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"pw"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp service.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user", resp.Role)

	claims, err := s.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestAccessMiddleware(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.signupAndLogin("ada@example.com", model.RoleUser)

	rec := s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied", rec.Body.String())

	rec = s.do(http.MethodGet, "/api/auth/me", "", map[string]string{"Authorization": "garbled.not.token"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid token", rec.Body.String())

	rec = s.do(http.MethodGet, "/api/auth/me", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "header is taken verbatim")

	rec = s.do(http.MethodGet, "/api/auth/me", "", map[string]string{"Authorization": token})
	require.Equal(t, http.StatusOK, rec.Code)
	var claims security.Claims
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.UserID)
}

func TestAdminRouteRequiresAdminRole(t *testing.T) {
	s := newTestServer(t, 100)
	userToken := s.signupAndLogin("ada@example.com", model.RoleUser)
	adminToken := s.signupAndLogin("root@example.com", model.RoleAdmin)

	rec := s.do(http.MethodGet, "/api/admin/users/ada@example.com", "", map[string]string{"Authorization": userToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", rec.Body.String())

	rec = s.do(http.MethodGet, "/api/admin/users/ada@example.com", "", map[string]string{"Authorization": adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ada@example.com"`)
	assert.NotContains(t, rec.Body.String(), "$2a$")

	rec = s.do(http.MethodGet, "/api/admin/users/ghost@example.com", "", map[string]string{"Authorization": adminToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProblemRoutes(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(http.MethodGet, "/api/problems", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var problems []model.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problems))
	require.Len(t, problems, 1)

	rec = s.do(http.MethodGet, "/api/problems/"+problems[0].Slug, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/problems/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Problem not found", rec.Body.String())
}

func TestExecuteRoutes(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.signupAndLogin("ada@example.com", model.RoleUser)
	auth := map[string]string{"Authorization": token}

	rec := s.do(http.MethodPost, "/api/execute/run", `{"code":"print(3)","language":"python"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/execute/run", `{"code":"print(3)","language":"python"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var job model.ExecutionJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.True(t, job.Passed)
	assert.Len(t, job.Results, 1)

	rec = s.do(http.MethodPost, "/api/execute/submit", `{"code":"x","language":"c"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.False(t, job.Passed)
	assert.Len(t, job.Results, 3)

	rec = s.do(http.MethodPost, "/api/execute/run", `{"code":"x","language":"rust"}`, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/execute/history", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.ExecutionJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, model.JobTypeSubmit, history[0].JobType)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"pw"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = s.do(http.MethodGet, "/api/problems", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(http.MethodOptions, "/api/auth/login", "", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(http.MethodOptions, "/api/auth/login", "", map[string]string{
		"Origin":                        "http://evil.example",
		"Access-Control-Request-Method": "POST",
	})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
