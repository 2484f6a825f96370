package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"freecode/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	store := NewFileStore(path)

	var got StoredUser
	ok, err := store.Get(UserKey, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(UserKey, StoredUser{Token: "t", Role: "admin"}))
	require.NoError(t, store.Set("other", 1))

	ok, err = NewFileStore(path).Get(UserKey, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StoredUser{Token: "t", Role: "admin"}, got)

	require.NoError(t, store.Delete(UserKey))
	ok, err = store.Get(UserKey, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	var other int
	ok, err = store.Get("other", &other)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, other)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

	_, err := NewFileStore(path).Get(UserKey, &StoredUser{})
	require.Error(t, err)
}

// fakeAuthServer mimics the API's auth routes closely enough for the client.
func fakeAuthServer(t *testing.T) (*httptest.Server, *[]map[string]string) {
	t.Helper()
	var signups []map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		signups = append(signups, body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("User registered"))
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "ada@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("User not found"))
			return
		}
		if creds.Password != "pw" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid password"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-123","role":"user"}`))
	})
	mux.HandleFunc("/api/execute/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Access denied"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"job_type":"run","results":[{"input":"1 2","test_passed":true}]}`))
	})
	mux.HandleFunc("/api/execute/submit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"job_type":"submit","results":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &signups
}

func TestSignupSendsTheGivenData(t *testing.T) {
	srv, signups := fakeAuthServer(t)
	auth := NewAuthClient(srv.URL, nil)

	require.NoError(t, auth.Signup(context.Background(), SignupData{Email: "ada@example.com", Password: "pw", Role: "admin"}))
	require.Len(t, *signups, 1)
	assert.Equal(t, map[string]string{"email": "ada@example.com", "password": "pw", "role": "admin"}, (*signups)[0])
}

func TestLoginErrorsCarryStatusAndBody(t *testing.T) {
	srv, _ := fakeAuthServer(t)
	auth := NewAuthClient(srv.URL, nil)

	_, err := auth.Login(context.Background(), Credentials{Email: "ghost@example.com", Password: "pw"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "User not found", statusErr.Message)
}

func TestIdentityLoginPersistsAndLogoutClears(t *testing.T) {
	srv, _ := fakeAuthServer(t)
	store := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))

	id, err := NewIdentity(NewAuthClient(srv.URL, nil), store)
	require.NoError(t, err)
	_, ok := id.Current()
	assert.False(t, ok)

	user, err := id.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", user.Token)

	restored, err := NewIdentity(NewAuthClient(srv.URL, nil), store)
	require.NoError(t, err)
	cur, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "user", cur.Role)

	require.NoError(t, restored.Logout())
	_, ok = restored.Current()
	assert.False(t, ok)

	again, err := NewIdentity(NewAuthClient(srv.URL, nil), store)
	require.NoError(t, err)
	_, ok = again.Current()
	assert.False(t, ok)
}

func TestIdentityFailedLoginKeepsPreviousUser(t *testing.T) {
	srv, _ := fakeAuthServer(t)
	store := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	id, err := NewIdentity(NewAuthClient(srv.URL, nil), store)
	require.NoError(t, err)

	_, err = id.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = id.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "bad"})
	require.Error(t, err)

	cur, ok := id.Current()
	require.True(t, ok)
	assert.Equal(t, "tok-123", cur.Token)
}

func TestRemoteExecutor(t *testing.T) {
	srv, _ := fakeAuthServer(t)
	store := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	id, err := NewIdentity(NewAuthClient(srv.URL, nil), store)
	require.NoError(t, err)

	remote := NewRemoteExecutor(srv.URL, "", id, nil)

	res := remote.Run(context.Background(), "print(3)", model.LanguagePython, "1 2")
	assert.True(t, strings.HasPrefix(res.Error, "Error executing code: "), res.Error)

	_, err = id.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	res = remote.Run(context.Background(), "print(3)", model.LanguagePython, "1 2")
	assert.True(t, res.TestPassed)
	assert.Empty(t, res.Error)

	results := remote.Submit(context.Background(), "x", model.LanguagePython)
	require.Len(t, results, 1)
	assert.Equal(t, "No test results returned from the execution.", results[0].Error)
}
