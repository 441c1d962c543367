package handlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/kavya-builds/demodrop/internal/api/middleware"
)

const sessionTTL = 24 * time.Hour

// sessionClaims is the admin session token payload.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// POST /admin/login
// Form body: password. Redirects to the dashboard on success, back to the
// form with ?err=1 on a wrong password and ?err=2 when throttled.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/login?err=1", http.StatusSeeOther)
		return
	}

	if !h.limiter.allow(remoteIP(r)) {
		http.Redirect(w, r, "/admin/login?err=2", http.StatusSeeOther)
		return
	}

	password := r.PostFormValue("password")
	if err := bcrypt.CompareHashAndPassword(h.adminHash, []byte(password)); err != nil {
		http.Redirect(w, r, "/admin/login?err=1", http.StatusSeeOther)
		return
	}

	expiration := time.Now().Add(sessionTTL)
	claims := &sessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.cfg.SessionSecret))
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	isProd := h.cfg.Environment == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// POST /admin/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	isProd := h.cfg.Environment == "production"

	// Delete the session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// loginLimiter throttles login attempts per remote address.
type loginLimiter struct {
	mu       sync.Mutex
	perMin   int
	burst    int
	visitors map[string]*rate.Limiter
}

func newLoginLimiter(perMin, burst int) *loginLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &loginLimiter{
		perMin:   perMin,
		burst:    burst,
		visitors: make(map[string]*rate.Limiter),
	}
}

func (l *loginLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.visitors[addr]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.burst)
		l.visitors[addr] = lim
	}
	return lim.Allow()
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
