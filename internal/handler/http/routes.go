package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/reset", h.resetPassword)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/spaces/{spaceID}", func(r chi.Router) {
			r.Get("/", h.getSpace)
			r.Put("/", h.ensureSpace)
			r.Post("/pause", h.pauseSharing)
			r.Post("/resume", h.resumeSharing)

			r.Post("/members", h.addMember)
			r.Delete("/members/{userID}", h.removeMember)

			r.Put("/items/{docID}", h.setDoc(collectionItems))
			r.Delete("/items/{docID}", h.deleteDoc(collectionItems))
			r.Post("/items/batch", h.batchSetDocs(collectionItems))
			r.Delete("/items", h.clearDocs(collectionItems))

			r.Put("/recipes/{docID}", h.setDoc(collectionRecipes))
			r.Delete("/recipes/{docID}", h.deleteDoc(collectionRecipes))
			r.Post("/recipes/batch", h.batchSetDocs(collectionRecipes))
			r.Delete("/recipes", h.clearDocs(collectionRecipes))

			r.Get("/watch/{collection}", h.watchSpaceCollection)
		})

		r.Get("/api/users/{userID}/spaces", h.userSpaces)
		r.Get("/api/users/{userID}/spaces/watch", h.watchUserSpaces)

		r.Route("/api/invites", func(r chi.Router) {
			r.Post("/", h.createInvite)
			r.Get("/", h.findInvites)
			r.Get("/{inviteID}", h.getInvite)
			r.Patch("/{inviteID}", h.setInviteStatus)
			r.Delete("/{inviteID}", h.deleteInvite)
		})
	})

	return router
}
