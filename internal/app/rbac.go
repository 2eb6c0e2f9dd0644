package app

import (
	"net/http"
)

const notLoginBody = `{"code":0,"msg":"NOT_LOGIN","data":null}`

// RequireEmployee rejects requests that carry no valid admin token.
func (a *App) RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.CurrentEmployeeID(r); !ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(notLoginBody))
			return
		}
		next.ServeHTTP(w, r)
	})
}
