package web

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// defaultUsername is used when credentials are configured without a
// username.
const defaultUsername = "admin"

// HashPassword produces a bcrypt hash suitable for the password_hash
// config key.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// requireAuth wraps next with HTTP basic authentication when a
// password hash is configured. Without one every endpoint stays open.
func requireAuth(cfg Config, next http.Handler) http.Handler {
	if cfg.PasswordHash == "" {
		return next
	}
	username := cfg.Username
	if username == "" {
		username = defaultUsername
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="multibutton"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
