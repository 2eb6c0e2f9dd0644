package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sky-admin-go/internal/app"
)

// NewRouter builds the HTTP surface. It lives here rather than in app to
// avoid an app<->handlers import cycle.
func NewRouter(a *app.App) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(a.MiddlewareAuthenticate)

	h := &Server{App: a}

	r.Get("/health", h.Health)

	// Streams stay open, so they sit outside the request timeout.
	r.Get("/user/dish/events", h.MenuEventsGet)

	r.Group(func(api chi.Router) {
		api.Use(chimw.Timeout(60 * time.Second))

		api.Get("/user/dish/list", h.UserDishListGet)
		api.Post("/admin/employee/login", h.EmployeeLoginPost)

		api.Route("/admin", func(ad chi.Router) {
			ad.Use(a.RequireEmployee)

			ad.Route("/employee", func(er chi.Router) {
				er.Post("/logout", h.EmployeeLogoutPost)
				er.Post("/", h.EmployeeCreatePost)
				er.Put("/", h.EmployeeUpdatePut)
				er.Get("/page", h.EmployeePageGet)
				er.Post("/status/{status}", h.EmployeeStatusPost)
				er.Put("/editPassword", h.EmployeePasswordPut)
				er.Get("/{id}", h.EmployeeGet)
			})

			ad.Route("/dish", func(dr chi.Router) {
				dr.Post("/", h.DishCreatePost)
				dr.Put("/", h.DishUpdatePut)
				dr.Delete("/", h.DishDelete)
				dr.Get("/page", h.DishPageGet)
				dr.Get("/list", h.DishListGet)
				dr.Post("/status/{status}", h.DishStatusPost)
				dr.Get("/{id}", h.DishGet)
			})
		})
	})

	return r
}
