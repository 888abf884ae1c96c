package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avink/microgram/pkg/middleware"
	"github.com/avink/microgram/pkg/response"
)

// FollowCounts provides the computed follower/following counts the
// user responses are composed with
type FollowCounts interface {
	FollowersCount(ctx context.Context, userID string) (int, error)
	FollowingCount(ctx context.Context, userID string) (int, error)
}

// Handler handles HTTP requests for user operations
type Handler struct {
	service *Service
	counts  FollowCounts
}

// NewHandler creates a new user handler with its dependencies injected
func NewHandler(service *Service, counts FollowCounts) *Handler {
	return &Handler{service: service, counts: counts}
}

// Register handles POST /register
// @Summary      Register a new user
// @Description  Create a new account with username, email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		response.BadRequest(w, "username, email and password are required")
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to register user")
		}
		return
	}

	response.JSON(w, http.StatusCreated, user.ToResponse(0, 0))
}

// Login handles POST /token
// @Summary      Log in
// @Description  Exchange username and password for a bearer token
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Username"
// @Param        password formData string true "Password"
// @Success      200 {object} response.APIResponse{data=TokenResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /token [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		response.BadRequest(w, "username and password are required")
		return
	}

	token, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to log in")
		return
	}

	response.JSON(w, http.StatusOK, &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// List handles GET /users
// @Summary      List users
// @Description  Get users in creation order with follower/following counts
// @Tags         users
// @Produce      json
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(100)
// @Success      200 {object} response.APIResponse{data=[]UserResponse}
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, total, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		response.InternalError(w, "Failed to list users")
		return
	}

	userResponses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		resp, err := h.compose(r.Context(), u)
		if err != nil {
			response.InternalError(w, "Failed to list users")
			return
		}
		userResponses = append(userResponses, resp)
	}

	meta := &response.Meta{
		Offset: offset,
		Limit:  limit,
		Total:  total,
	}
	response.JSONWithMeta(w, http.StatusOK, userResponses, meta)
}

// GetByID handles GET /users/{id}
// @Summary      Get user by ID
// @Description  Get a single user with follower/following counts
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get user")
		return
	}

	resp, err := h.compose(r.Context(), user)
	if err != nil {
		response.InternalError(w, "Failed to get user")
		return
	}
	response.JSON(w, http.StatusOK, resp)
}

// Me handles GET /me
// @Summary      Get the current user
// @Description  Get the authenticated user with follower/following counts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetByUsername(r.Context(), subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Unauthorized(w, "Unknown token subject")
			return
		}
		response.InternalError(w, "Failed to get current user")
		return
	}

	resp, err := h.compose(r.Context(), user)
	if err != nil {
		response.InternalError(w, "Failed to get current user")
		return
	}
	response.JSON(w, http.StatusOK, resp)
}

func (h *Handler) compose(ctx context.Context, u *User) (*UserResponse, error) {
	followers, err := h.counts.FollowersCount(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	following, err := h.counts.FollowingCount(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return u.ToResponse(followers, following), nil
}
