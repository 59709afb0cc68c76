package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/kith/models"
)

// isolateXDG points session storage at a scratch directory.
func isolateXDG(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func authedClient(baseURL string) *Client {
	return New(baseURL,
		WithDeviceID("dev-1"),
		WithSession(&Session{
			User:  models.User{ID: "u1", Email: "ada@example.com", Name: "Ada"},
			Token: tokenFromStrings("access-1", "refresh-1"),
		}),
	)
}

func TestDoSendsAuthHeaders(t *testing.T) {
	isolateXDG(t)

	var gotAuth, gotDevice string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDevice = r.Header.Get("X-Device-Id")
		_ = json.NewEncoder(w).Encode([]models.Contact{{ID: "c1", Name: "Grace"}})
	}))
	defer server.Close()

	client := authedClient(server.URL)
	contacts, err := client.FetchContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Grace", contacts[0].Name)
	assert.Equal(t, "Bearer access-1", gotAuth)
	assert.Equal(t, "dev-1", gotDevice)
}

func TestDoRefreshesOnceAndRetries(t *testing.T) {
	isolateXDG(t)

	var refreshes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refreshToken"])
		_ = json.NewEncoder(w).Encode(AuthResponse{Token: "access-2", RefreshToken: "refresh-2"})
	})
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]models.Contact{{ID: "c1"}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := authedClient(server.URL)
	contacts, err := client.FetchContacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))

	// The rotated pair replaces the old one, in memory and on disk.
	session := client.Session()
	require.NotNil(t, session)
	assert.Equal(t, "access-2", session.Token.AccessToken)
	assert.Equal(t, "Ada", session.User.Name)

	persisted, err := LoadSession()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "refresh-2", persisted.Token.RefreshToken)
}

func TestDoSessionExpiredWhenRefreshRejected(t *testing.T) {
	isolateXDG(t)
	require.NoError(t, SaveSession(&Session{Token: tokenFromStrings("a", "r")}))

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := authedClient(server.URL)
	_, err := client.FetchContacts(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)

	// Dead credentials are wiped everywhere.
	assert.False(t, client.Authed())
	persisted, err := LoadSession()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestConcurrentUnauthorizedRefreshesOnce(t *testing.T) {
	isolateXDG(t)

	var refreshes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		_ = json.NewEncoder(w).Encode(AuthResponse{Token: "access-2", RefreshToken: "refresh-2"})
	})
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]models.Contact{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := authedClient(server.URL)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.FetchContacts(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

func TestStatusErrorCarriesServerMessage(t *testing.T) {
	isolateXDG(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "name is required"})
	}))
	defer server.Close()

	client := authedClient(server.URL)
	_, err := client.CreateContact(context.Background(), &models.Contact{})
	require.Error(t, err)

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, serr.Code)
	assert.Equal(t, "name is required", serr.Message)
	assert.True(t, IsValidation(err))
	assert.False(t, IsNetwork(err))
}

func TestNetworkErrorClassification(t *testing.T) {
	isolateXDG(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := authedClient(server.URL)
	_, err := client.FetchContacts(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.False(t, IsValidation(err))

	// An unreachable server must not destroy the session.
	assert.True(t, client.Authed())
}

func TestLoginStoresSession(t *testing.T) {
	isolateXDG(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(AuthResponse{
			User:         models.User{ID: "u1", Email: "ada@example.com", Name: "Ada"},
			Token:        "access-1",
			RefreshToken: "refresh-1",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	user, err := client.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.True(t, client.Authed())

	persisted, err := LoadSession()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "u1", persisted.User.ID)

	require.NoError(t, client.Logout())
	assert.False(t, client.Authed())
	persisted, err = LoadSession()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}
