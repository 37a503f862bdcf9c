package credential

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/andrebq/gatepass/internal/logutil"
)

// LoginRedirect builds the login location for a visitor that wanted next.
func LoginRedirect(loginPath, next string) string {
	sep := "?"
	if strings.Contains(loginPath, "?") {
		sep = "&"
	}
	return loginPath + sep + "next=" + url.QueryEscape(next)
}

// Guard sends visitors without a local session to loginPath, keeping
// the page they asked for in the next query parameter.
func Guard(v *Verifier, loginPath string) func(http.Handler) http.Handler {
	return func(protected http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			m, err := v.Session(ctx)
			if err != nil {
				log := logutil.GetOrDefault(ctx)
				log.Error().Err(err).Msg("Unable to read local session")
			}
			if m == nil {
				http.Redirect(w, r, LoginRedirect(loginPath, r.URL.RequestURI()), http.StatusFound)
				return
			}
			protected.ServeHTTP(w, r)
		})
	}
}
