package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fauzankm/storefront/internal/config"
	inErrors "github.com/fauzankm/storefront/internal/errors"
	"github.com/fauzankm/storefront/internal/kv"
	"github.com/fauzankm/storefront/internal/session"
	"github.com/fauzankm/storefront/user/request"
)

type ttlRecordingStore struct {
	*kv.MemoryStore
	lastTTL time.Duration
}

func (s *ttlRecordingStore) Set(
	c context.Context,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	s.lastTTL = ttl
	return s.MemoryStore.Set(c, key, value, ttl)
}

func accountService(t *testing.T, handler http.HandlerFunc) (*AuthService, *kv.MemoryStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := kv.NewMemoryStore()
	svc := NewAuthService(srv.Client(), store, config.Account{BaseUrl: srv.URL})
	return svc, store
}

func TestLogin(t *testing.T) {
	t.Run("given accepted credentials should derive and persist identity", func(t *testing.T) {
		var receivedBody map[string]string
		svc, store := accountService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))
			w.Write([]byte(`{"token":"abc"}`))
		})

		identity, err := svc.Login(context.Background(), "session-1", request.LoginRequest{
			Email:    "john@example.com",
			Password: "changeme",
		})

		assert.NoError(t, err)
		assert.Equal(t, "john", identity.Username)
		assert.Equal(t, "john@example.com", identity.Email)
		assert.Equal(t, "changeme", receivedBody["password"])

		restored, err := svc.CurrentUser(context.Background(), "session-1")
		assert.NoError(t, err)
		assert.Equal(t, "john", restored.Username)
		assert.Equal(t, 1, store.Len())
	})
	t.Run("given rejected credentials should not persist anything", func(t *testing.T) {
		svc, store := accountService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := svc.Login(context.Background(), "session-1", request.LoginRequest{
			Email:    "john@example.com",
			Password: "wrong",
		})

		assert.ErrorIs(t, err, inErrors.ErrInvalidCredentials)
		assert.Equal(t, 0, store.Len())
	})
}

func TestRegister(t *testing.T) {
	t.Run("given accepted registration should send full profile and not sign in", func(t *testing.T) {
		var receivedBody map[string]string
		svc, store := accountService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":11}`))
		})

		err := svc.Register(context.Background(), request.RegisterRequest{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john@example.com",
			Password:  "changeme1",
		})

		assert.NoError(t, err)
		assert.Equal(t, "John Doe", receivedBody["name"])
		assert.Equal(t, "John", receivedBody["firstName"])
		assert.Equal(t, 0, store.Len())

		_, err = svc.CurrentUser(context.Background(), "session-1")
		assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)
	})
	t.Run("given rejected registration should surface the API message", func(t *testing.T) {
		svc, _ := accountService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"email already exists"}`))
		})

		err := svc.Register(context.Background(), request.RegisterRequest{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john@example.com",
			Password:  "changeme1",
		})

		assert.EqualError(t, err, "email already exists")
	})
	t.Run("given rejection without message should use the fallback", func(t *testing.T) {
		svc, _ := accountService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := svc.Register(context.Background(), request.RegisterRequest{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john@example.com",
			Password:  "changeme1",
		})

		assert.EqualError(t, err, "Failed to create account")
	})
}

func TestLoginPersistsIdentityForSessionLifetime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"abc"}`))
	}))
	t.Cleanup(srv.Close)
	store := &ttlRecordingStore{MemoryStore: kv.NewMemoryStore()}
	svc := NewAuthService(srv.Client(), store, config.Account{BaseUrl: srv.URL})

	_, err := svc.Login(context.Background(), "session-1", request.LoginRequest{
		Email:    "john@example.com",
		Password: "changeme",
	})

	assert.NoError(t, err)
	assert.Equal(t, session.Lifetime, store.lastTTL)
}

func TestLogout(t *testing.T) {
	svc, store := accountService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"abc"}`))
	})
	_, err := svc.Login(context.Background(), "session-1", request.LoginRequest{
		Email:    "john@example.com",
		Password: "changeme",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	assert.NoError(t, svc.Logout(context.Background(), "session-1"))

	_, err = svc.CurrentUser(context.Background(), "session-1")
	assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)
	assert.Equal(t, 0, store.Len())
}

func TestCurrentUserScopedPerSession(t *testing.T) {
	svc, _ := accountService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"abc"}`))
	})
	_, err := svc.Login(context.Background(), "session-1", request.LoginRequest{
		Email:    "john@example.com",
		Password: "changeme",
	})
	assert.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), "session-2")
	assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)
}
