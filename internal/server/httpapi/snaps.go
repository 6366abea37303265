package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/logging"
	"github.com/snapshare/backend/internal/server/filestore"
	"github.com/snapshare/backend/internal/server/models"
	"github.com/snapshare/backend/internal/server/services"
)

// SnapService is the slice of the services layer the snap handlers need.
type SnapService interface {
	Create(ctx context.Context, userID string, in services.CreateSnapInput) (*models.Snap, error)
	Update(ctx context.Context, userID, snapID, title, description string) (*models.Snap, error)
	Delete(ctx context.Context, userID, snapID string) error
	GetByID(ctx context.Context, snapID string) (*models.Snap, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Snap, error)
	Random(ctx context.Context) (*models.Snap, error)
}

// SnapHandler handles snap reads and the authenticated mutations.
type SnapHandler struct {
	snaps          SnapService
	files          filestore.Store
	logger         logging.Logger
	maxUploadBytes int64
}

func NewSnapHandler(snaps SnapService, files filestore.Store, logger logging.Logger, maxUploadBytes int64) *SnapHandler {
	return &SnapHandler{snaps: snaps, files: files, logger: logger, maxUploadBytes: maxUploadBytes}
}

// GetByID handles GET /api/snaps/{sid}.
func (h *SnapHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snaps.GetByID(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "Could not find the snap for the provided id.")
			return
		}
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"snap": snap})
}

// ListByUser handles GET /api/snaps/user/{uid}.
func (h *SnapHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.snaps.ListByCreator(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if len(snaps) == 0 {
		respondError(w, http.StatusNotFound, "Could not find snaps for the provided user id.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"snaps": snaps})
}

// Random handles GET /api/snaps/random.
func (h *SnapHandler) Random(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snaps.Random(r.Context())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(w, http.StatusNotFound, "Could not find the snap.")
			return
		}
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"snap": snap})
}

// Create handles POST /api/snaps. The body is a multipart form with title,
// description, address, and an image part. The creator is always the
// verified identity from the token; a creator field in the form is ignored.
func (h *SnapHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusForbidden, msgAuthFailed)
		return
	}

	imagePath, err := parseUploadForm(w, r, h.files, h.maxUploadBytes)
	if err != nil {
		respondError(w, errorStatus(err), msgInvalidInputs)
		return
	}

	in := services.CreateSnapInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Address:     strings.TrimSpace(r.FormValue("address")),
		ImagePath:   imagePath,
	}

	if in.Title == "" || in.Description == "" || in.Address == "" {
		discardUpload(r.Context(), h.files, imagePath, h.logger.Warn)
		respondError(w, http.StatusUnprocessableEntity, msgInvalidInputs)
		return
	}

	snap, err := h.snaps.Create(r.Context(), userID, in)
	if err != nil {
		discardUpload(r.Context(), h.files, imagePath, h.logger.Warn)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			respondError(w, http.StatusNotFound, "Could not find user for provided id.")
		case errors.Is(err, common.ErrorInternal):
			respondError(w, http.StatusInternalServerError, "Creating snap failed, please try again.")
		default:
			// geocoding errors keep their own status
			respondError(w, errorStatus(err), "Could not resolve the provided address.")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"snap": snap})
}

type updateSnapRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Update handles PATCH /api/snaps/{sid}. Only title and description are
// mutable, and only by the owner.
func (h *SnapHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusForbidden, msgAuthFailed)
		return
	}

	var req updateSnapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, msgInvalidInputs)
		return
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		respondError(w, http.StatusUnprocessableEntity, msgInvalidInputs)
		return
	}

	snap, err := h.snaps.Update(r.Context(), userID, chi.URLParam(r, "sid"), title, description)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			respondError(w, http.StatusNotFound, "Could not find the snap.")
		case errors.Is(err, common.ErrorNotOwner):
			respondError(w, http.StatusUnauthorized, "You are not allowed to edit this snap.")
		default:
			respondError(w, http.StatusInternalServerError, "Something went wrong, could not update snap.")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"snap": snap})
}

// Delete handles DELETE /api/snaps/{sid}.
func (h *SnapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusForbidden, msgAuthFailed)
		return
	}

	if err := h.snaps.Delete(r.Context(), userID, chi.URLParam(r, "sid")); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			respondError(w, http.StatusNotFound, "Could not find the snap for the id.")
		case errors.Is(err, common.ErrorNotOwner):
			respondError(w, http.StatusUnauthorized, "You are not allowed to delete this snap.")
		default:
			respondError(w, http.StatusInternalServerError, "Something went wrong, could not delete snap.")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted snap."})
}
