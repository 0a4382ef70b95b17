package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fauzankm/storefront/internal/constants"
	"github.com/fauzankm/storefront/internal/session"
)

const testSecretKey = "test-secret"

func sessionCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestSessionMiddleware(t *testing.T) {
	var capturedID string
	handler := Session(testSecretKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = session.FromContext(r.Context())
	}))

	t.Run("given no cookie should mint a session and set the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.NotEmpty(t, capturedID)
		cookie := sessionCookieFrom(rec)
		assert.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)

		subject, err := session.VerifyToken(testSecretKey, cookie.Value)
		assert.NoError(t, err)
		assert.Equal(t, capturedID, subject)
	})
	t.Run("given valid cookie should reuse the session id", func(t *testing.T) {
		id, token, err := session.MintToken(testSecretKey)
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, id, capturedID)
		assert.Nil(t, sessionCookieFrom(rec))
	})
	t.Run("given tampered cookie should mint a fresh session", func(t *testing.T) {
		id, token, err := session.MintToken(testSecretKey)
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token + "x"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.NotEmpty(t, capturedID)
		assert.NotEqual(t, id, capturedID)
		cookie := sessionCookieFrom(rec)
		assert.NotNil(t, cookie)

		subject, err := session.VerifyToken(testSecretKey, cookie.Value)
		assert.NoError(t, err)
		assert.Equal(t, capturedID, subject)
	})
	t.Run("given cookie signed with another key should mint a fresh session", func(t *testing.T) {
		_, token, err := session.MintToken("other-secret")
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.NotEmpty(t, capturedID)
		assert.NotNil(t, sessionCookieFrom(rec))
	})
}
