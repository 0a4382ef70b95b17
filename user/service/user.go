package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fauzankm/storefront/internal/config"
	inErrors "github.com/fauzankm/storefront/internal/errors"
	inHttp "github.com/fauzankm/storefront/internal/http"
	"github.com/fauzankm/storefront/internal/kv"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/otel"
	"github.com/fauzankm/storefront/internal/session"
	"github.com/fauzankm/storefront/user/request"
	"github.com/fauzankm/storefront/user/response"
)

const storageKeyUser = "user_%s"

// AuthService holds the session's signed-in identity. Login success is
// inferred solely from the account API's HTTP status; the returned tokens are
// not used for subsequent authorization.
type AuthService struct {
	client *http.Client
	store  kv.Store
	config config.Account
}

func NewAuthService(client *http.Client, store kv.Store, config config.Account) *AuthService {
	return &AuthService{client: client, store: store, config: config}
}

// SetUser replaces the session's identity. A nil identity removes the
// persisted entry and marks the session unauthenticated. The entry carries
// the session lifetime as ttl so abandoned sessions age out of storage.
func (svc *AuthService) SetUser(
	c context.Context,
	sessionID string,
	identity *response.Identity,
) error {
	c, span := otel.Tracer.Start(c, "AuthService SetUser")
	defer span.End()

	storageKey := fmt.Sprintf(storageKeyUser, sessionID)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService SetUser").
		Str(log.KeySessionID, sessionID).
		Str(log.KeyStorageKey, storageKey).
		Logger()

	if identity == nil {
		logger = logger.With().Str(log.KeyProcess, "removing persisted identity").Logger()
		logger.Info().Msg("removing persisted identity")
		if err := svc.store.Del(c, storageKey); err != nil {
			err = fmt.Errorf("failed removing persisted identity with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Msg("removed persisted identity")
		return nil
	}

	logger = logger.With().
		Str(log.KeyProcess, "persisting identity").
		Str(log.KeyEmail, identity.Email).
		Logger()
	logger.Info().Msg("persisting identity")
	encoded, err := json.Marshal(identity)
	if err != nil {
		err = fmt.Errorf("failed marshaling identity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err := svc.store.Set(c, storageKey, encoded, session.Lifetime); err != nil {
		err = fmt.Errorf("failed persisting identity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("persisted identity")
	return nil
}

// CurrentUser restores the session's identity from storage. It returns
// ErrUnauthenticated when no identity is persisted.
func (svc *AuthService) CurrentUser(
	c context.Context,
	sessionID string,
) (*response.Identity, error) {
	c, span := otel.Tracer.Start(c, "AuthService CurrentUser")
	defer span.End()

	storageKey := fmt.Sprintf(storageKeyUser, sessionID)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService CurrentUser").
		Str(log.KeyStorageKey, storageKey).
		Logger()

	stored, err := svc.store.Get(c, storageKey)
	if err != nil {
		if errors.Is(err, inErrors.ErrKeyNotFound) {
			return nil, inErrors.ErrUnauthenticated
		}
		err = fmt.Errorf("failed loading persisted identity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	identity := response.Identity{}
	if err := json.Unmarshal(stored, &identity); err != nil {
		err = fmt.Errorf("failed unmarshaling persisted identity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return &identity, nil
}

func (svc *AuthService) Login(
	c context.Context,
	sessionID string,
	param request.LoginRequest,
) (response.Identity, error) {
	c, span := otel.Tracer.Start(c, "AuthService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting login").Logger()
	logger.Info().Msg("requesting login from account API")
	payload, err := json.Marshal(map[string]string{
		"email":    param.Email,
		"password": param.Password,
	})
	if err != nil {
		err = fmt.Errorf("failed marshaling login payload with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Identity{}, err
	}
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		svc.config.BaseUrl+"/auth/login",
		bytes.NewBuffer(payload),
	)
	if err != nil {
		err = fmt.Errorf("failed creating login request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Identity{}, err
	}
	req.Header.Add(inHttp.KeyHeaderContentType, inHttp.ValueHeaderApplicationJson)
	req.Header.Add(inHttp.KeyHeaderRequestID, log.RequestIDFromContext(c))
	resp, err := svc.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed requesting login with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Identity{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf(
			"account API returned status=%d with error=%w",
			resp.StatusCode,
			inErrors.ErrInvalidCredentials,
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Identity{}, inErrors.ErrInvalidCredentials
	}
	logger.Info().Msg("login accepted by account API")

	identity := response.Identity{
		Username: strings.Split(param.Email, "@")[0],
		Email:    param.Email,
	}

	logger = logger.With().Str(log.KeyProcess, "storing identity").Logger()
	logger.Info().Msg("storing identity")
	c = logger.WithContext(c)
	if err := svc.SetUser(c, sessionID, &identity); err != nil {
		err = fmt.Errorf("failed storing identity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Identity{}, err
	}
	logger.Info().Msg("stored identity")

	return identity, nil
}

// Register creates the account remotely. Success does not sign the user in;
// the caller is redirected to login.
func (svc *AuthService) Register(c context.Context, param request.RegisterRequest) error {
	c, span := otel.Tracer.Start(c, "AuthService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService Register").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "requesting registration").Logger()
	logger.Info().Msg("requesting registration from account API")
	payload, err := json.Marshal(map[string]string{
		"firstName": param.FirstName,
		"lastName":  param.LastName,
		"email":     param.Email,
		"password":  param.Password,
		"avatar":    param.Avatar,
		"name":      strings.TrimSpace(param.FirstName + " " + param.LastName),
	})
	if err != nil {
		err = fmt.Errorf("failed marshaling registration payload with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		svc.config.BaseUrl+"/users/",
		bytes.NewBuffer(payload),
	)
	if err != nil {
		err = fmt.Errorf("failed creating registration request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Add(inHttp.KeyHeaderContentType, inHttp.ValueHeaderApplicationJson)
	req.Header.Add(inHttp.KeyHeaderRequestID, log.RequestIDFromContext(c))
	resp, err := svc.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed requesting registration with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody := map[string]interface{}{}
		json.NewDecoder(resp.Body).Decode(&respBody)
		message, ok := respBody["message"].(string)
		if !ok || message == "" {
			message = "Failed to create account"
		}
		err = fmt.Errorf("account API returned status=%d with message=%s", resp.StatusCode, message)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return errors.New(message)
	}
	logger.Info().Msg("registration accepted by account API")

	return nil
}

func (svc *AuthService) Logout(c context.Context, sessionID string) error {
	c, span := otel.Tracer.Start(c, "AuthService Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthService Logout").
		Str(log.KeySessionID, sessionID).
		Str(log.KeyProcess, "clearing identity").
		Logger()

	logger.Info().Msg("clearing identity")
	c = logger.WithContext(c)
	if err := svc.SetUser(c, sessionID, nil); err != nil {
		err = fmt.Errorf("failed clearing identity with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared identity")
	return nil
}
