// internal/site/visitor.go
package site

import (
	"net/http"
	"time"

	"github.com/orderrave/plated/internal/landing"
)

type cookieConfig struct {
	name   string
	ttl    time.Duration
	secure bool
}

// visitor returns the caller's component, creating a visitor when the
// cookie is missing or stale, and refreshes the cookie's expiry.
func (s *Site) visitor(w http.ResponseWriter, r *http.Request) *landing.Component {
	var id string
	if c, err := r.Cookie(s.cookie.name); err == nil {
		id = c.Value
	}

	comp, id, _ := s.registry.Resolve(id)

	ck := &http.Cookie{
		Name:     s.cookie.name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookie.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cookie.ttl > 0 {
		ck.MaxAge = int(s.cookie.ttl / time.Second)
	}
	http.SetCookie(w, ck)
	return comp
}
