package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/fauzankm/storefront/internal/errors"
	inHttp "github.com/fauzankm/storefront/internal/http"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/otel"
	"github.com/fauzankm/storefront/internal/session"
	productResponse "github.com/fauzankm/storefront/product/response"
	"github.com/fauzankm/storefront/wishlist/request"
	"github.com/fauzankm/storefront/wishlist/service"
)

type WishlistController struct {
	service *service.WishlistService
}

func AttachWishlistController(router *mux.Router, service *service.WishlistService) {
	controller := WishlistController{service: service}

	wishlistRouter := router.PathPrefix("/wishlists").Subrouter()
	wishlistRouter.HandleFunc("", controller.GetWishlist).Methods(http.MethodGet)
	wishlistRouter.HandleFunc("", controller.AddToWishlist).Methods(http.MethodPost)
	wishlistRouter.HandleFunc("/{productId:[0-9]+}", controller.IsInWishlist).
		Methods(http.MethodGet)
	wishlistRouter.HandleFunc("/{productId:[0-9]+}", controller.RemoveFromWishlist).
		Methods(http.MethodDelete)
}

func (ctrl WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController AddToWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController AddToWishlist").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.AddWishlistEntry{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "adding to wishlist").Logger()
	logger.Info().Msg("adding to wishlist")
	c = logger.WithContext(c)
	err := ctrl.service.AddToWishlist(c, session.FromContext(c), productResponse.Product{
		ID:          reqBody.ID,
		Title:       reqBody.Title,
		Price:       reqBody.Price,
		Description: reqBody.Description,
		Image:       reqBody.Image,
		Category:    reqBody.Category,
	})
	if err != nil {
		err = fmt.Errorf("failed adding to wishlist with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    "failed adding to wishlist",
		})
		return
	}
	logger.Info().Msg("added to wishlist")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "wishlist updated",
	})
}

func (ctrl WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController RemoveFromWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController RemoveFromWishlist").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting pathvalue productId").Logger()
	logger.Trace().Msg("getting pathvalue productId")
	id, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		err = fmt.Errorf("failed getting pathvalue productId with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Int64(log.KeyProductID, id).Logger()

	logger = logger.With().Str(log.KeyProcess, "removing from wishlist").Logger()
	logger.Info().Msg("removing from wishlist")
	c = logger.WithContext(c)
	if err := ctrl.service.RemoveFromWishlist(c, session.FromContext(c), id); err != nil {
		err = fmt.Errorf("failed removing from wishlist with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    "failed removing from wishlist",
		})
		return
	}
	logger.Info().Msg("removed from wishlist")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "wishlist updated",
	})
}

// IsInWishlist reports membership for a single product. Anonymous sessions
// simply read false.
func (ctrl WishlistController) IsInWishlist(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController IsInWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController IsInWishlist").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting pathvalue productId").Logger()
	logger.Trace().Msg("getting pathvalue productId")
	id, err := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)
	if err != nil {
		err = fmt.Errorf("failed getting pathvalue productId with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Int64(log.KeyProductID, id).Logger()

	logger = logger.With().Str(log.KeyProcess, "checking wishlist membership").Logger()
	logger.Trace().Msg("checking wishlist membership")
	c = logger.WithContext(c)
	inWishlist := ctrl.service.IsInWishlist(c, session.FromContext(c), id)
	logger.Info().Bool("inWishlist", inWishlist).Msg("checked wishlist membership")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "wishlist membership checked",
		"data": map[string]interface{}{
			"inWishlist": inWishlist,
		},
	})
}

func (ctrl WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WishlistController GetWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistController GetWishlist").
		Str(log.KeyProcess, "getting wishlist").
		Logger()

	logger.Trace().Msg("getting wishlist")
	c = logger.WithContext(c)
	wishlist, err := ctrl.service.GetWishlist(c, session.FromContext(c))
	if err != nil {
		if errors.Is(err, inErrors.ErrUnauthenticated) {
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusUnauthorized,
				"message":    "Please login to view your wishlist",
			})
			return
		}
		err = fmt.Errorf("failed getting wishlist with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    "failed getting wishlist",
		})
		return
	}
	logger.Info().Msg("got wishlist")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "wishlist found",
		"data": map[string]interface{}{
			"wishlist": wishlist,
		},
	})
}
