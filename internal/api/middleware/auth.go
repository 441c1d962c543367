package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the admin session cookie name.
const SessionCookie = "admin_session"

// loginPath is where unauthenticated reviewers are sent. The contract is a
// redirect, never a data response, for every protected route.
const loginPath = "/admin/login"

// AdminAuth validates the reviewer's session cookie against the shared
// signing secret and redirects to the login form when it is missing or bad.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if role, _ := claims["role"].(string); role != "admin" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
