package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mwhardin/probata/internal/http/estates"
	"github.com/mwhardin/probata/internal/http/jurisdictions"
)

func New(
	estatesV1 *estates.Handler,
	jurisdictionsV1 *jurisdictions.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/estates", func(r chi.Router) {
			estatesV1.Routes(r)
		})

		r.Route("/jurisdictions", func(r chi.Router) {
			jurisdictionsV1.Routes(r)
		})
	})

	return router
}
