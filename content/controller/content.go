package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	inHttp "github.com/fauzankm/storefront/internal/http"
	"github.com/fauzankm/storefront/internal/otel"
)

type ContentController struct{}

func AttachContentController(router *mux.Router) {
	controller := ContentController{}

	router.HandleFunc("/about", controller.About).Methods(http.MethodGet)
}

func (ctrl ContentController) About(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ContentController About")
	defer span.End()

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "about",
		"data": map[string]interface{}{
			"title": "About Our Store",
			"body": "We are a storefront built on top of a public product catalog. " +
				"Browse the catalog, keep a wishlist, and fill your cart.",
		},
	})
}
