// Package session identifies a browser session. The session id is a uuid
// carried in a signed cookie; every piece of per-visitor state (cart, auth
// identity, wishlist cache, pending notifications) is keyed by it.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fauzankm/storefront/internal/constants"
	inErrors "github.com/fauzankm/storefront/internal/errors"
)

// Lifetime bounds every piece of per-session state: the signed token expires
// after it, and identity storage plus the in-memory cart and notification
// queues are reaped on the same clock.
const Lifetime = 24 * time.Hour

type sessionId struct{}

func AttachToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, sessionId{}, id)
}

func FromContext(c context.Context) string {
	id, ok := c.Value(sessionId{}).(string)
	if !ok {
		return ""
	}
	return id
}

func MintToken(secretKey string) (id string, token string, err error) {
	id = uuid.NewString()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{constants.AudienceStorefront},
		Issuer:    constants.AppStorefrontService,
		Subject:   id,
		ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed signing session token with error=%w", err)
	}
	return id, token, nil
}

func VerifyToken(secretKey string, token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AudienceStorefront),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.AppStorefrontService),
	)
	if err != nil {
		return "", fmt.Errorf("failed parsing session token with error=%w", err)
	}
	if !parsed.Valid {
		return "", inErrors.ErrSessionInvalid
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed getting subject from session token with error=%w", err)
	}
	if _, err := uuid.Parse(subject); err != nil {
		return "", fmt.Errorf("failed parsing subject=%s with error=%w", subject, err)
	}
	return subject, nil
}
