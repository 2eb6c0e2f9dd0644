package app

import (
	"net/http"
	"strings"

	"sky-admin-go/internal/db"
	"sky-admin-go/internal/service"
)

// TokenHeader is the header admin clients send the JWT in. A standard
// "Authorization: Bearer" header is accepted as well.
const TokenHeader = "token"

func tokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(TokenHeader)); t != "" {
		return t
	}
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// middlewareAuthenticate puts the employee id of a valid token into the
// request context. The employee is reloaded on every request and must still
// exist and be enabled. Other requests pass through unchanged.
func (a *App) middlewareAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		empID, err := a.tokens.Parse(raw)
		if err != nil {
			a.log.Debug("rejecting token", "err", err, "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}
		e, err := a.store.Q.GetEmployeeByID(r.Context(), empID)
		switch {
		case err != nil:
			a.log.Error("load token employee", "err", err, "emp_id", empID)
		case e == nil || e.Status != db.StatusEnabled:
			a.log.Debug("rejecting token of inactive employee", "emp_id", empID, "path", r.URL.Path)
		default:
			r = r.WithContext(service.WithActor(r.Context(), e.ID))
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentEmployeeID returns the authenticated employee id, if any.
func (a *App) CurrentEmployeeID(r *http.Request) (int64, bool) {
	return service.ActorID(r.Context())
}

func (a *App) MiddlewareAuthenticate(next http.Handler) http.Handler {
	return a.middlewareAuthenticate(next)
}
