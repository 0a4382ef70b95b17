package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fauzankm/storefront/internal/kv"
	"github.com/fauzankm/storefront/internal/notification"
	productResponse "github.com/fauzankm/storefront/product/response"
	userResponse "github.com/fauzankm/storefront/user/response"
	"github.com/fauzankm/storefront/wishlist/service"
)

type stubAuth struct{}

func (stubAuth) CurrentUser(
	c context.Context,
	sessionID string,
) (*userResponse.Identity, error) {
	return &userResponse.Identity{Username: "john", Email: "john@example.com"}, nil
}

func TestIsInWishlistRoute(t *testing.T) {
	svc := service.NewWishlistService(stubAuth{}, kv.NewMemoryStore(), notification.NewHub())
	err := svc.AddToWishlist(context.Background(), "session-1", productResponse.Product{
		ID:    1,
		Title: "Red Hat",
		Price: decimal.NewFromInt(10),
	})
	assert.NoError(t, err)

	router := mux.NewRouter()
	AttachWishlistController(router, svc)

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{
			name:     "given saved product should report membership",
			path:     "/wishlists/1",
			expected: true,
		},
		{
			name:     "given unsaved product should report no membership",
			path:     "/wishlists/2",
			expected: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, test.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := map[string]interface{}{}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			data, ok := body["data"].(map[string]interface{})
			assert.True(t, ok)
			assert.Equal(t, test.expected, data["inWishlist"])
		})
	}
}
