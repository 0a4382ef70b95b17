package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fauzankm/storefront/internal/constants"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/session"
)

// Session resolves the visitor's session id from the signed cookie, minting a
// fresh session when the cookie is missing or fails verification.
func Session(secretKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Session").
				Logger()

			sessionID := ""
			cookie, err := r.Cookie(constants.SessionCookieName)
			if err == nil {
				sessionID, err = session.VerifyToken(secretKey, cookie.Value)
				if err != nil {
					logger.Info().Err(err).Msg("session cookie rejected, minting new session")
					sessionID = ""
				}
			}

			if sessionID == "" {
				id, token, err := session.MintToken(secretKey)
				if err != nil {
					logger.Error().Err(err).Msg(err.Error())
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				sessionID = id
				http.SetCookie(w, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			logger = logger.With().Str(log.KeySessionID, sessionID).Logger()
			c := session.AttachToContext(r.Context(), sessionID)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
