package middleware

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.IsAdmin() {
				common.RespondError(w, time.Now(), nil, constants.ErrMsgAdminOnly, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
