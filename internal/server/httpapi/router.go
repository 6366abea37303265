// Package httpapi exposes the snapshare JSON API over HTTP. Handlers accept
// a parsed body / verified identity / stored file path and delegate all
// domain decisions to the services layer.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snapshare/backend/internal/logging"
)

// NewRouter mounts the API:
//
//	GET    /api/users              → list users
//	POST   /api/users/signup       → register (multipart, image)
//	POST   /api/users/login        → login
//	GET    /api/snaps/random       → one random snap
//	GET    /api/snaps/user/{uid}   → snaps owned by a user
//	GET    /api/snaps/{sid}        → snap by id
//	POST   /api/snaps              → create snap   (auth, multipart)
//	PATCH  /api/snaps/{sid}        → update snap   (auth)
//	DELETE /api/snaps/{sid}        → delete snap   (auth)
func NewRouter(userHandler *UserHandler, snapHandler *SnapHandler, verifier TokenVerifier, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Post("/signup", userHandler.SignUp)
			r.Post("/login", userHandler.LogIn)
		})

		r.Route("/snaps", func(r chi.Router) {
			// Public reads.
			r.Get("/random", snapHandler.Random)
			r.Get("/user/{uid}", snapHandler.ListByUser)
			r.Get("/{sid}", snapHandler.GetByID)

			// Mutations require a verified identity.
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(verifier))
				r.Post("/", snapHandler.Create)
				r.Patch("/{sid}", snapHandler.Update)
				r.Delete("/{sid}", snapHandler.Delete)
			})
		})
	})

	return r
}
