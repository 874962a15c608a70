package authz

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var errInvalidToken = errors.New("invalid token")

// VerifyToken validates an HMAC-signed bearer token and returns the subject
// user ID. Token issuance happens elsewhere; this service only verifies.
func VerifyToken(tokenString, secret string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", errInvalidToken
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	// The external issuer may mint tokens without an expiry; validate exp
	// only when present.
	if !claims.VerifyExpiresAt(time.Now().Unix(), false) {
		return "", errInvalidToken
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		// Some older clients still send the user ID under a custom claim.
		userID, _ = claims["userId"].(string)
	}
	if userID == "" {
		return "", errInvalidToken
	}
	return userID, nil
}

// JWTMiddleware authenticates requests via the Authorization bearer header
// and stores the subject on the request context.
func JWTMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
				return
			}
			userID, err := VerifyToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
