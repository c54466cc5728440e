package permission

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/pagination"
)

// Handle handles HTTP requests for permission management
type Handle struct {
	svc *Service
}

// NewHandle creates a new permission handle
func NewHandle(svc *Service) *Handle {
	return &Handle{svc: svc}
}

// RegisterRoutes registers the permission routes. The path id is the
// permission name.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Get("/", h.FindAll)
	r.Post("/", h.Save)
	r.Delete("/", h.DeleteAll)
	r.Get("/{id}", h.FindByName)
	r.Put("/{id}", h.Replace)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.DeleteByName)
}

// FindAll handles GET /
func (h *Handle) FindAll(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r)

	dtos, err := h.svc.FindAll(r.Context(), page)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	if dtos == nil {
		dtos = []PermissionDto{}
	}
	render.JSON(w, r, dtos)
}

// Save handles POST /
func (h *Handle) Save(w http.ResponseWriter, r *http.Request) {
	dto, err := decode(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	if err := dto.Validate(true); err != nil {
		errors.Render(w, r, err)
		return
	}

	saved, err := h.svc.Save(r.Context(), dto)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, saved)
}

// FindByName handles GET /{id}
func (h *Handle) FindByName(w http.ResponseWriter, r *http.Request) {
	dto, err := h.svc.FindByName(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	render.JSON(w, r, dto)
}

// Replace handles PUT /{id}
func (h *Handle) Replace(w http.ResponseWriter, r *http.Request) {
	dto, err := decode(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	if err := dto.Validate(true); err != nil {
		errors.Render(w, r, err)
		return
	}

	replaced, err := h.svc.Replace(r.Context(), dto, chi.URLParam(r, "id"))
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, replaced)
}

// Update handles PATCH /{id}
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	dto, err := decode(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	if err := dto.Validate(false); err != nil {
		errors.Render(w, r, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), dto, chi.URLParam(r, "id"))
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, updated)
}

// DeleteByName handles DELETE /{id}
func (h *Handle) DeleteByName(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteByName(r.Context(), chi.URLParam(r, "id")); err != nil {
		errors.Render(w, r, err)
		return
	}
	render.PlainText(w, r, http.StatusText(http.StatusOK))
}

// DeleteAll handles DELETE /
func (h *Handle) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAll(r.Context()); err != nil {
		errors.Render(w, r, err)
		return
	}
	render.PlainText(w, r, http.StatusText(http.StatusOK))
}

func decode(r *http.Request) (PermissionDto, error) {
	var dto PermissionDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return PermissionDto{}, errors.InvalidInput("invalid request body")
	}
	return dto, nil
}
