package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/pkg/client"
)

// fakeAPI is a minimal stand-in for the server. It accepts exactly one
// credential pair and one bearer token.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] != "staff@test.com" || body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access": "good-token", "refresh": "refresh-token"})
	})
	mux.HandleFunc("GET /api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
			return
		}
		json.NewEncoder(w).Encode(domain.User{ID: 1, Email: "staff@test.com", FullName: "Staff", Role: domain.RoleStaff})
	})
	return httptest.NewServer(mux)
}

func TestSession_LoginLogout(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	store := &client.MemoryTokenStore{}
	sess := client.NewSession(client.New(srv.URL), store)

	assert.False(t, sess.State().Authenticated())
	assert.Equal(t, domain.Role(""), sess.State().Role())

	user, err := sess.Login(context.Background(), "staff@test.com", "secret")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, user.Role)
	assert.True(t, sess.State().Authenticated())

	saved, _ := store.Load()
	assert.Equal(t, "good-token", saved)

	assert.NoError(t, sess.Logout())
	assert.False(t, sess.State().Authenticated())
	saved, _ = store.Load()
	assert.Empty(t, saved)
}

func TestSession_LoginRejected(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	sess := client.NewSession(client.New(srv.URL), &client.MemoryTokenStore{})

	_, err := sess.Login(context.Background(), "staff@test.com", "wrong")
	assert.Error(t, err)
	assert.True(t, client.IsAuthError(err))
	assert.False(t, sess.State().Authenticated())
}

func TestSession_RestoreValidCredential(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	store := &client.MemoryTokenStore{}
	assert.NoError(t, store.Save("good-token"))

	sess := client.NewSession(client.New(srv.URL), store)
	assert.NoError(t, sess.Restore(context.Background()))

	state := sess.State()
	assert.True(t, state.Authenticated())
	assert.Equal(t, domain.RoleStaff, state.Role())
	assert.False(t, state.Loading)
	assert.False(t, sess.Loading())
	assert.Equal(t, "staff@test.com", sess.Current().Email)
}

func TestSession_RestoreRejectedCredentialClearsStore(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	store := &client.MemoryTokenStore{}
	assert.NoError(t, store.Save("stale-token"))

	sess := client.NewSession(client.New(srv.URL), store)
	err := sess.Restore(context.Background())
	assert.Error(t, err)
	assert.True(t, client.IsAuthError(err))

	// The rejected credential is gone, so the next run starts clean.
	saved, _ := store.Load()
	assert.Empty(t, saved)
	assert.False(t, sess.State().Authenticated())
}

func TestSession_RestoreWithoutCredential(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	sess := client.NewSession(client.New(srv.URL), &client.MemoryTokenStore{})
	assert.NoError(t, sess.Restore(context.Background()))
	assert.False(t, sess.State().Authenticated())
}

func TestSession_TransportFailureKeepsCredential(t *testing.T) {
	srv := fakeAPI(t)
	srv.Close() // connection refused from here on

	store := &client.MemoryTokenStore{}
	assert.NoError(t, store.Save("good-token"))

	sess := client.NewSession(client.New(srv.URL), store)
	err := sess.Restore(context.Background())
	assert.Error(t, err)
	assert.False(t, client.IsAuthError(err))

	// Unreachable server is not a rejection; keep the credential.
	saved, _ := store.Load()
	assert.Equal(t, "good-token", saved)
}

func TestSession_StateReturnsCopy(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	store := &client.MemoryTokenStore{}
	assert.NoError(t, store.Save("good-token"))
	sess := client.NewSession(client.New(srv.URL), store)
	assert.NoError(t, sess.Restore(context.Background()))

	state := sess.State()
	state.User.FullName = "Mutated"
	assert.Equal(t, "Staff", sess.State().User.FullName)
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "token")
	store := &client.FileTokenStore{Path: path}

	// Missing file reads as empty, not as an error.
	token, err := store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)

	assert.NoError(t, store.Save("abc"))
	token, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, "abc", token)

	assert.NoError(t, store.Clear())
	token, err = store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}
