package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/logging"
	"github.com/snapshare/backend/internal/server/filestore"
	"github.com/snapshare/backend/internal/server/models"
	"github.com/snapshare/backend/internal/server/services"
)

// UserService is the slice of the services layer the user handlers need.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	List(ctx context.Context) ([]*models.User, error)
}

// UserHandler handles account listing, signup, and login.
type UserHandler struct {
	users          UserService
	files          filestore.Store
	logger         logging.Logger
	maxUploadBytes int64
}

func NewUserHandler(users UserService, files filestore.Store, logger logging.Logger, maxUploadBytes int64) *UserHandler {
	return &UserHandler{users: users, files: files, logger: logger, maxUploadBytes: maxUploadBytes}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, errorStatus(err), msgInternal)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// SignUp handles POST /api/users/signup. The body is a multipart form with
// name, motto, email, password, and an image part.
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	imagePath, err := parseUploadForm(w, r, h.files, h.maxUploadBytes)
	if err != nil {
		respondError(w, errorStatus(err), msgInvalidInputs)
		return
	}

	in := services.RegisterInput{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Motto:     strings.TrimSpace(r.FormValue("motto")),
		Email:     normalizeEmail(r.FormValue("email")),
		Password:  r.FormValue("password"),
		ImagePath: imagePath,
	}

	if in.Name == "" || in.Motto == "" || !validEmail(in.Email) || len(in.Password) < 8 {
		discardUpload(r.Context(), h.files, imagePath, h.logger.Warn)
		respondError(w, http.StatusUnprocessableEntity, msgInvalidInputs)
		return
	}

	user, token, err := h.users.Register(r.Context(), in)
	if err != nil {
		discardUpload(r.Context(), h.files, imagePath, h.logger.Warn)
		if errors.Is(err, common.ErrorEmailTaken) {
			respondError(w, http.StatusUnprocessableEntity, "An account associated with this email already exists.")
			return
		}
		respondError(w, http.StatusInternalServerError, "Signing up failed, please try again.")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogIn handles POST /api/users/login. Unknown email and wrong password are
// reported identically.
func (h *UserHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, msgInvalidInputs)
		return
	}

	email := normalizeEmail(req.Email)
	if !validEmail(email) || req.Password == "" {
		respondError(w, http.StatusUnprocessableEntity, msgInvalidInputs)
		return
	}

	user, token, err := h.users.Login(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			respondError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		respondError(w, http.StatusInternalServerError, "Logging in failed, please try again.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
