package student

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/pagination"
)

// Handle handles HTTP requests for student management
type Handle struct {
	svc *Service
}

// NewHandle creates a new student handle
func NewHandle(svc *Service) *Handle {
	return &Handle{svc: svc}
}

// RegisterRoutes registers the student routes
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Get("/", h.FindAll)
	r.Post("/", h.Save)
	r.Delete("/", h.DeleteAll)
	r.Get("/{id}", h.FindByID)
	r.Put("/{id}", h.Replace)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.DeleteByID)
}

// FindAll handles GET /; the optional courseId query parameter filters
// to students enrolled in that course.
func (h *Handle) FindAll(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromRequest(r)

	var courseID *uuid.UUID
	if raw := r.URL.Query().Get("courseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errors.Render(w, r, errors.InvalidInput("invalid courseId value"))
			return
		}
		courseID = &id
	}

	dtos, err := h.svc.FindAll(r.Context(), courseID, page)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	if dtos == nil {
		dtos = []StudentDto{}
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

// FindByID handles GET /{id}
func (h *Handle) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}

	dto, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	render.JSON(w, r, dto)
}

// Replace handles PUT /{id}
func (h *Handle) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	dto, err := decode(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	if err := dto.Validate(true); err != nil {
		errors.Render(w, r, err)
		return
	}

	replaced, err := h.svc.Replace(r.Context(), dto, id)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, replaced)
}

// Update handles PATCH /{id}
func (h *Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	dto, err := decode(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	if err := dto.Validate(false); err != nil {
		errors.Render(w, r, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), dto, id)
	if err != nil {
		errors.Render(w, r, err)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, updated)
}

// DeleteByID handles DELETE /{id}
func (h *Handle) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errors.Render(w, r, err)
		return
	}

	if err := h.svc.DeleteByID(r.Context(), id); err != nil {
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

func decode(r *http.Request) (StudentDto, error) {
	var dto StudentDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return StudentDto{}, errors.InvalidInput("invalid request body")
	}
	return dto, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.InvalidInput("invalid student id")
	}
	return id, nil
}
