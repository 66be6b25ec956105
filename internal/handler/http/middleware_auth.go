package http

import (
	"context"
	"net/http"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
)

const headerClientID = "X-Client-Id"

// auth enforces JWT bearer authentication. On success the authenticated user
// id and the caller's client id (for own-echo suppression on watch
// broadcasts) are stored in the request context before delegating to next.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.cfg.TokenSignKey, h.cfg.TokenIssuer)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, token.UserID)
		if clientID := r.Header.Get(headerClientID); clientID != "" {
			ctx = context.WithValue(ctx, utils.ClientIDCtxKey, clientID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
