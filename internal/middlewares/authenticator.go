package middlewares

import (
	"context"
	"net/http"

	"github.com/nosregor/learning-platform/internal/configuration"
	"github.com/nosregor/learning-platform/internal/helpers"
	"github.com/nosregor/learning-platform/internal/models"
)

// Authenticate parses the bearer access token and stores the claims in the
// request context. Routes listed in the configuration's auth rules (the
// pre-authentication flow endpoints) pass through without a token.
func Authenticate(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if isExcluded(r.URL.Path, r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			accessToken := r.Header.Get("Authorization")
			userClaims, err := helpers.ParseAccessToken(jwtSecret, accessToken)
			if err != nil {
				helpers.RespondWithError(w, http.StatusForbidden, []string{"FORBIDDEN"})
				return
			}

			ctx := context.WithValue(r.Context(), models.UserClaimKey{}, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func isExcluded(path, method string) bool {
	if exactRules, exists := configuration.AuthRuleExactMatchPath[path]; exists {
		for _, rule := range exactRules {
			if rule.Method == "*" || rule.Method == method {
				return !rule.RequireAuth
			}
		}
	}
	return false
}
