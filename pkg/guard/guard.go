package guard

import (
	"net/http"

	"github.com/klokku/cleancal/pkg/session"
	"github.com/samber/mo"
	log "github.com/sirupsen/logrus"
)

// Allow reports whether protected content may be shown. Only presence of a
// token matters; validity is discovered by the first failing request.
func Allow(token mo.Option[string]) bool {
	return token.IsPresent()
}

type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Routes names the two entry points the guard redirects between.
type Routes struct {
	Login string
	Home  string
}

// Decide resolves a navigation to path. Protected paths without a session go
// to the login entry; the login entry with a session goes to home.
func (r Routes) Decide(path string, token mo.Option[string]) Decision {
	allowed := Allow(token)
	if path == r.Login {
		if allowed {
			return Decision{RedirectTo: r.Home}
		}
		return Decision{Allowed: true}
	}
	if !allowed {
		return Decision{RedirectTo: r.Login}
	}
	return Decision{Allowed: true}
}

// Middleware applies Decide to every request, re-reading the store each time.
func Middleware(store session.Store, routes Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := routes.Decide(r.URL.Path, store.Get(r.Context()))
			if !decision.Allowed {
				log.Debugf("Redirecting %s to %s", r.URL.Path, decision.RedirectTo)
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
