package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/fauzankm/storefront/internal/log"
)

func TestLoggingAttachesRequestMetadata(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var capturedID string
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = log.RequestIDFromContext(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req = req.WithContext(logger.WithContext(req.Context()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, capturedID)
	assert.Contains(t, buf.String(), capturedID)
	assert.Contains(t, buf.String(), log.KeyTraceID)
	assert.Contains(t, buf.String(), log.KeySpanID)
}

func TestLoggingReusesIncomingRequestID(t *testing.T) {
	var capturedID string
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = log.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", capturedID)
}

func TestLoggingMasksPasswordButKeepsBodyIntact(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var forwardedBody string
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		forwardedBody = string(raw)
		zerolog.Ctx(r.Context()).Info().Msg("handled")
	}))

	body := `{"email":"john@example.com","password":"changeme"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req = req.WithContext(logger.WithContext(req.Context()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Contains(t, forwardedBody, "changeme")
	assert.NotContains(t, buf.String(), "changeme")
	assert.Contains(t, buf.String(), "****")
}
