package api

import (
	"context"
	"net/http"
	"regexp"

	"github.com/andrebq/gatepass/identity"
	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/andrebq/gatepass/token"
)

type (
	// Realm guards handlers with bearer tokens issued by a token.Service.
	// A Realm without a service answers every request with 501.
	Realm struct {
		tokens *token.Service
	}

	ctxKey byte
)

const (
	claimsKey = ctxKey(1)
)

var (
	bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)
)

func NewRealm(tokens *token.Service) *Realm {
	return &Realm{
		tokens: tokens,
	}
}

func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tokens == nil {
			writeError(w, http.StatusNotImplemented, msgNotConfigured)
			return
		}
		claims, ok := s.checkToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// UserFromContext returns the identity placed in the request context by
// Realm.Protect.
func UserFromContext(ctx context.Context) (identity.User, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	if !ok {
		return identity.User{}, false
	}
	return claims.User(), true
}

func (s *Realm) checkToken(r *http.Request) (*token.Claims, bool) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	hdrVal := r.Header.Get("Authorization")
	groups := bearerTokenRE.FindStringSubmatch(hdrVal)
	if len(groups) == 0 {
		log.Debug().Bool("auth.header_present", hdrVal != "").Msg("Bearer token not found")
		return nil, false
	}
	claims, err := s.tokens.Verify(ctx, groups[1])
	if err != nil {
		log.Info().Err(err).Msg("Rejected bearer token")
		return nil, false
	}
	return claims, true
}
