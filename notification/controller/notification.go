package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/fauzankm/storefront/internal/http"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/notification"
	"github.com/fauzankm/storefront/internal/otel"
	"github.com/fauzankm/storefront/internal/session"
)

type NotificationController struct {
	hub *notification.Hub
}

func AttachNotificationController(router *mux.Router, hub *notification.Hub) {
	controller := NotificationController{hub: hub}

	router.HandleFunc("/notifications", controller.Drain).Methods(http.MethodGet)
}

// Drain hands the session its pending toasts and clears the queue.
func (ctrl NotificationController) Drain(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "NotificationController Drain")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationController Drain").
		Logger()

	notifications := ctrl.hub.Drain(session.FromContext(c))
	logger.Trace().Msgf("drained %d notifications", len(notifications))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "notifications drained",
		"data": map[string]interface{}{
			"notifications": notifications,
		},
	})
}
