package middlewares

import (
	"context"
	"errors"
	"net/http"
	"os"

	"expensor/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware authenticates the request from the auth_token cookie
// and stores the Microsoft account id (oid claim) in the context.
func JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("auth_token")
		if err != nil {
			utils.WriteError(w, "unauthorized: missing auth token", http.StatusUnauthorized)
			return
		}

		jwtSecret := os.Getenv("JWT_SECRET")

		parsedToken, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (any, error) {
			return []byte(jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				utils.WriteError(w, "token expired", http.StatusUnauthorized)
				return
			}
			utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok || !parsedToken.Valid {
			utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
			return
		}

		oid, ok := claims["oid"].(string)
		if !ok || oid == "" {
			utils.WriteError(w, "invalid login token: missing account id", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), oid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
