package handlers

import (
	"net/http"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/Nahnamehran/study-planner/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /register: returns the existing user for a known email, otherwise creates one.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
			Kind:    "missing_field",
		})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUser handles GET /users/:userId.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
