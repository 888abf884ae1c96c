package follow

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avink/microgram/internal/user"
	"github.com/avink/microgram/pkg/middleware"
	"github.com/avink/microgram/pkg/response"
)

// Handler handles HTTP requests for follow operations
type Handler struct {
	service *Service
	users   *user.Service
}

// NewHandler creates a new follow handler with its dependencies injected
func NewHandler(service *Service, users *user.Service) *Handler {
	return &Handler{service: service, users: users}
}

// Follow handles POST /follow/{user_id}
// @Summary      Follow a user
// @Description  Make the authenticated user follow the target user
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "Target user ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /follow/{user_id} [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	current, targetID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	// Self-follow is rejected here, not in the follow graph.
	if targetID == current.ID {
		response.BadRequest(w, "Cannot follow yourself")
		return
	}

	created, err := h.service.Follow(r.Context(), current.ID, targetID)
	if err != nil {
		response.InternalError(w, "Failed to follow user")
		return
	}
	if !created {
		response.BadRequest(w, "Follow failed")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"detail": "Now following"})
}

// Unfollow handles POST /unfollow/{user_id}
// @Summary      Unfollow a user
// @Description  Make the authenticated user unfollow the target user
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "Target user ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /unfollow/{user_id} [post]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	current, targetID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if targetID == current.ID {
		response.BadRequest(w, "Cannot unfollow yourself")
		return
	}

	removed, err := h.service.Unfollow(r.Context(), current.ID, targetID)
	if err != nil {
		response.InternalError(w, "Failed to unfollow user")
		return
	}
	if !removed {
		response.BadRequest(w, "Unfollow failed")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"detail": "Unfollowed"})
}

// resolve loads the authenticated user and the target user id from the
// request, writing the error response itself when either is missing.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*user.User, string, bool) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return nil, "", false
	}

	current, err := h.users.GetByUsername(r.Context(), subject)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Unauthorized(w, "Unknown token subject")
			return nil, "", false
		}
		response.InternalError(w, "Failed to resolve current user")
		return nil, "", false
	}

	targetID := chi.URLParam(r, "user_id")
	if targetID == "" {
		response.BadRequest(w, "Target user ID required")
		return nil, "", false
	}

	return current, targetID, true
}
