package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fauzankm/storefront/cart/request"
	"github.com/fauzankm/storefront/cart/response"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/notification"
	"github.com/fauzankm/storefront/internal/otel"
	"github.com/fauzankm/storefront/internal/session"
)

const sweepInterval = 10 * time.Minute

type sessionCart struct {
	items    []response.CartItem
	lastSeen time.Time
}

// CartService holds each session's cart in memory only: the cart resets when
// the session goes away, while the wishlist survives in durable storage. That
// asymmetry is inherited from the storefront this service fronts. Carts idle
// longer than the session lifetime are reaped.
type CartService struct {
	mu       sync.Mutex
	carts    map[string]*sessionCart
	notifier notification.Notifier
	nowFunc  func() time.Time
}

func NewCartService(notifier notification.Notifier) *CartService {
	svc := &CartService{
		carts:    make(map[string]*sessionCart),
		notifier: notifier,
		nowFunc:  time.Now,
	}
	go svc.sweepLoop()
	return svc
}

func (svc *CartService) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		svc.sweep(svc.nowFunc())
	}
}

func (svc *CartService) sweep(now time.Time) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for sessionID, cart := range svc.carts {
		if now.Sub(cart.lastSeen) > session.Lifetime {
			delete(svc.carts, sessionID)
		}
	}
}

// cart returns the session's cart, creating it on first use. Caller holds mu.
func (svc *CartService) cart(sessionID string) *sessionCart {
	entry, ok := svc.carts[sessionID]
	if !ok {
		entry = &sessionCart{}
		svc.carts[sessionID] = entry
	}
	entry.lastSeen = svc.nowFunc()
	return entry
}

// AddToCart inserts a new line item, or increments the existing line item's
// quantity by exactly 1 when the product is already in the cart. The passed
// quantity only applies on first insert.
func (svc *CartService) AddToCart(c context.Context, sessionID string, param request.AddCartItem) {
	c, span := otel.Tracer.Start(c, "CartService AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddToCart").
		Str(log.KeySessionID, sessionID).
		Int64(log.KeyProductID, param.ID).
		Logger()

	svc.mu.Lock()
	entry := svc.cart(sessionID)
	for i, item := range entry.items {
		if item.ID == param.ID {
			entry.items[i].Quantity++
			svc.mu.Unlock()
			logger.Info().
				Int32(log.KeyCartItemQuantity, item.Quantity+1).
				Msg("incremented cart item quantity")
			svc.notifier.Success(sessionID, fmt.Sprintf("Added another %s to cart", param.Title))
			return
		}
	}

	quantity := param.Quantity
	if quantity < 1 {
		quantity = 1
	}
	entry.items = append(entry.items, response.CartItem{
		ID:            param.ID,
		Title:         param.Title,
		Price:         param.Price,
		Image:         param.Image,
		Quantity:      quantity,
		SelectedSize:  param.SelectedSize,
		SelectedColor: param.SelectedColor,
	})
	svc.mu.Unlock()

	logger.Info().Int32(log.KeyCartItemQuantity, quantity).Msg("inserted cart item")
	svc.notifier.Success(sessionID, fmt.Sprintf("%s added to cart", param.Title))
}

// RemoveFromCart deletes the line item; a missing product id is a silent
// no-op.
func (svc *CartService) RemoveFromCart(c context.Context, sessionID string, productID int64) {
	c, span := otel.Tracer.Start(c, "CartService RemoveFromCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveFromCart").
		Str(log.KeySessionID, sessionID).
		Int64(log.KeyProductID, productID).
		Logger()

	svc.mu.Lock()
	entry, ok := svc.carts[sessionID]
	if ok {
		entry.lastSeen = svc.nowFunc()
		for i, item := range entry.items {
			if item.ID == productID {
				entry.items = append(entry.items[:i], entry.items[i+1:]...)
				svc.mu.Unlock()
				logger.Info().Msg("removed cart item")
				svc.notifier.Success(sessionID, fmt.Sprintf("%s removed from cart", item.Title))
				return
			}
		}
	}
	svc.mu.Unlock()
	logger.Info().Msg("cart item not found, nothing removed")
}

// UpdateQuantity sets the line item's quantity to exactly quantity. A value
// below 1 makes the whole call a no-op; there is no upper clamp.
func (svc *CartService) UpdateQuantity(
	c context.Context,
	sessionID string,
	productID int64,
	quantity int32,
) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeySessionID, sessionID).
		Int64(log.KeyProductID, productID).
		Int32(log.KeyCartItemQuantity, quantity).
		Logger()

	if quantity < 1 {
		logger.Info().Msg("quantity below 1, ignoring update")
		return
	}

	svc.mu.Lock()
	entry, ok := svc.carts[sessionID]
	if ok {
		entry.lastSeen = svc.nowFunc()
		for i, item := range entry.items {
			if item.ID == productID {
				entry.items[i].Quantity = quantity
				svc.mu.Unlock()
				logger.Info().Msg("updated cart item quantity")
				svc.notifier.Success(
					sessionID,
					fmt.Sprintf("Updated %s quantity to %d", item.Title, quantity),
				)
				return
			}
		}
	}
	svc.mu.Unlock()
	logger.Info().Msg("cart item not found, nothing updated")
}

func (svc *CartService) ClearCart(c context.Context, sessionID string) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeySessionID, sessionID).
		Logger()

	svc.mu.Lock()
	delete(svc.carts, sessionID)
	svc.mu.Unlock()
	logger.Info().Msg("cleared cart")
}

func (svc *CartService) GetCart(c context.Context, sessionID string) response.Cart {
	_, span := otel.Tracer.Start(c, "CartService GetCart")
	defer span.End()

	svc.mu.Lock()
	items := []response.CartItem{}
	if entry, ok := svc.carts[sessionID]; ok {
		entry.lastSeen = svc.nowFunc()
		items = make([]response.CartItem, len(entry.items))
		copy(items, entry.items)
	}
	svc.mu.Unlock()

	totalItems := int32(0)
	totalPrice := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return response.Cart{Items: items, TotalItems: totalItems, TotalPrice: totalPrice}
}
