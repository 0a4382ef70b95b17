package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	inErrors "github.com/fauzankm/storefront/internal/errors"
	"github.com/fauzankm/storefront/internal/kv"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/notification"
	"github.com/fauzankm/storefront/internal/otel"
	"github.com/fauzankm/storefront/product/response"
	userResponse "github.com/fauzankm/storefront/user/response"
)

const storageKeyWishlist = "wishlist_%s"

// AuthProvider resolves the session's signed-in identity. Every wishlist
// mutation is gated on it.
type AuthProvider interface {
	CurrentUser(c context.Context, sessionID string) (*userResponse.Identity, error)
}

// WishlistService persists each user's saved products under a key scoped to
// the authenticated email. Unauthenticated mutations fail softly: a
// notification is emitted, nothing is changed, durable storage is never
// touched.
type WishlistService struct {
	auth     AuthProvider
	store    kv.Store
	notifier notification.Notifier
}

func NewWishlistService(
	auth AuthProvider,
	store kv.Store,
	notifier notification.Notifier,
) *WishlistService {
	return &WishlistService{auth: auth, store: store, notifier: notifier}
}

func (svc *WishlistService) load(c context.Context, email string) []response.Product {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService load").
		Str(log.KeyEmail, email).
		Logger()

	stored, err := svc.store.Get(c, fmt.Sprintf(storageKeyWishlist, email))
	if err != nil {
		if !errors.Is(err, inErrors.ErrKeyNotFound) {
			logger.Error().Err(err).Msgf("failed loading wishlist with error=%s", err.Error())
		}
		return []response.Product{}
	}

	wishlist := []response.Product{}
	if err := json.Unmarshal(stored, &wishlist); err != nil {
		logger.Error().Err(err).Msgf("failed unmarshaling wishlist with error=%s", err.Error())
		return []response.Product{}
	}
	return wishlist
}

func (svc *WishlistService) persist(
	c context.Context,
	email string,
	wishlist []response.Product,
) error {
	encoded, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("failed marshaling wishlist with error=%w", err)
	}
	err = svc.store.Set(c, fmt.Sprintf(storageKeyWishlist, email), encoded, 0)
	if err != nil {
		return fmt.Errorf("failed persisting wishlist with error=%w", err)
	}
	return nil
}

func (svc *WishlistService) AddToWishlist(
	c context.Context,
	sessionID string,
	product response.Product,
) error {
	c, span := otel.Tracer.Start(c, "WishlistService AddToWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService AddToWishlist").
		Str(log.KeySessionID, sessionID).
		Int64(log.KeyProductID, product.ID).
		Logger()

	identity, err := svc.auth.CurrentUser(c, sessionID)
	if err != nil {
		logger.Info().Err(err).Msg("not authenticated, skipping wishlist add")
		svc.notifier.Error(sessionID, "Please login to add items to wishlist")
		return nil
	}

	logger = logger.With().
		Str(log.KeyEmail, identity.Email).
		Str(log.KeyProcess, "adding to wishlist").
		Logger()
	logger.Info().Msg("adding to wishlist")
	wishlist := append(svc.load(c, identity.Email), product)
	if err := svc.persist(c, identity.Email, wishlist); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("added to wishlist")

	svc.notifier.Success(sessionID, fmt.Sprintf("%s added to wishlist", product.Title))
	return nil
}

// RemoveFromWishlist filters out every entry with the given product id. It is
// idempotent; the notification names the removed product only when a match
// existed.
func (svc *WishlistService) RemoveFromWishlist(
	c context.Context,
	sessionID string,
	productID int64,
) error {
	c, span := otel.Tracer.Start(c, "WishlistService RemoveFromWishlist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WishlistService RemoveFromWishlist").
		Str(log.KeySessionID, sessionID).
		Int64(log.KeyProductID, productID).
		Logger()

	identity, err := svc.auth.CurrentUser(c, sessionID)
	if err != nil {
		logger.Info().Err(err).Msg("not authenticated, skipping wishlist remove")
		svc.notifier.Error(sessionID, "Please login to manage wishlist")
		return nil
	}

	logger = logger.With().
		Str(log.KeyEmail, identity.Email).
		Str(log.KeyProcess, "removing from wishlist").
		Logger()
	logger.Info().Msg("removing from wishlist")
	wishlist := svc.load(c, identity.Email)
	removedTitle := ""
	filtered := make([]response.Product, 0, len(wishlist))
	for _, entry := range wishlist {
		if entry.ID == productID {
			removedTitle = entry.Title
			continue
		}
		filtered = append(filtered, entry)
	}
	if err := svc.persist(c, identity.Email, filtered); err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("removed from wishlist")

	if removedTitle != "" {
		svc.notifier.Success(sessionID, fmt.Sprintf("%s removed from wishlist", removedTitle))
	}
	return nil
}

// GetWishlist returns the authenticated user's saved products. It returns
// ErrUnauthenticated when the session has no identity.
func (svc *WishlistService) GetWishlist(
	c context.Context,
	sessionID string,
) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "WishlistService GetWishlist")
	defer span.End()

	identity, err := svc.auth.CurrentUser(c, sessionID)
	if err != nil {
		if errors.Is(err, inErrors.ErrUnauthenticated) {
			return nil, inErrors.ErrUnauthenticated
		}
		otel.RecordError(err, span)
		return nil, err
	}
	return svc.load(c, identity.Email), nil
}

func (svc *WishlistService) IsInWishlist(
	c context.Context,
	sessionID string,
	productID int64,
) bool {
	c, span := otel.Tracer.Start(c, "WishlistService IsInWishlist")
	defer span.End()

	identity, err := svc.auth.CurrentUser(c, sessionID)
	if err != nil {
		return false
	}
	for _, entry := range svc.load(c, identity.Email) {
		if entry.ID == productID {
			return true
		}
	}
	return false
}
