package customers

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Get("/{id}/photos", h.ListPhotos)
	r.Post("/{id}/photos", h.AddPhoto)
}
