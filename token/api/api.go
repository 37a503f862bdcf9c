package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/andrebq/gatepass/identity"
	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/andrebq/gatepass/token"
	"github.com/julienschmidt/httprouter"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgUnauthorized       = "Unauthorized."
	msgNotConfigured      = "Auth is not configured."
	msgMissingFields      = "Missing username or password."
	msgInvalidBody        = "Invalid JSON body."
	msgInternal           = "Internal server error."

	maxLoginBody = 64 << 10
)

type (
	loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	loginResponse struct {
		Token string        `json:"token"`
		User  identity.User `json:"user"`
	}

	meResponse struct {
		User identity.User `json:"user"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

// AsHandler exposes tokens over HTTP. tokens may be nil, in which case
// every auth endpoint answers 501. When chat is not nil it is mounted
// at /api/chat behind the bearer realm; preflight requests reach it
// without a token.
func AsHandler(ctx context.Context, tokens *token.Service, chat http.Handler) http.Handler {
	realm := NewRealm(tokens)
	router := httprouter.New()
	router.HandlerFunc("POST", "/api/login", login(tokens))
	router.Handler("GET", "/api/me", realm.Protect(http.HandlerFunc(me)))
	if chat != nil {
		router.Handler("POST", "/api/chat", realm.Protect(chat))
		router.Handler("OPTIONS", "/api/chat", chat)
	}
	if tokens == nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Msg("Token service is not configured, auth endpoints will answer 501")
	}
	return router
}

func login(tokens *token.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tokens == nil {
			writeError(w, http.StatusNotImplemented, msgNotConfigured)
			return
		}
		ctx := r.Context()
		log := logutil.GetOrDefault(ctx)
		var req loginRequest
		dec := json.NewDecoder(io.LimitReader(r.Body, maxLoginBody))
		if err := dec.Decode(&req); err != nil {
			log.Debug().Err(err).Msg("Unable to decode login request")
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		grant, err := tokens.Login(ctx, req.Username, req.Password)
		switch {
		case errors.Is(err, token.ErrInvalidCredentials):
			log.Info().Msg("Invalid login attempt")
			writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		case err != nil:
			log.Error().Err(err).Msg("Unable to issue token")
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		log.Info().Str("auth.user", grant.User.Username).Time("auth.expires_at", grant.ExpiresAt).Msg("Token issued")
		writeJSON(w, http.StatusOK, loginResponse{Token: grant.Token, User: grant.User})
	}
}

func me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: user})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
