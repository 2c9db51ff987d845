// File: internal/user/handler.go
package user

import (
	"fmt"
	"net/http"

	"campus_identity_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for the legacy user document handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// CreatedTextFormat is the reply to a successful create. Existing clients
// match the Khmer suffix ("successfully") byte for byte.
const CreatedTextFormat = "Document created with ID: %s បានជោគជ័យ"

// NewHandler creates a new user handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("UserHandler"),
	}
}

// RegisterRoutes sets up the routes for the legacy user documents.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/createUser", h.create)
	router.GET("/getUsers", h.list)
	router.GET("/getUserById", h.getByID)
	router.DELETE("/deleteUserById", h.deleteByID)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create user document: invalid request body", zap.Error(err), zap.Any("fields", common.ValidationDetails(err)))
		common.RespondText(c, http.StatusBadRequest, ErrNamesRequired.Message)
		return
	}
	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Error creating document")
		return
	}
	common.RespondText(c, http.StatusOK, fmt.Sprintf(CreatedTextFormat, id))
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error fetching users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) getByID(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Query("id"))
	if err != nil {
		h.respondError(c, err, "Error fetching user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) deleteByID(c *gin.Context) {
	id := c.Query("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Error deleting user")
		return
	}
	common.RespondText(c, http.StatusOK, fmt.Sprintf("User with ID %s deleted successfully.", id))
}

// respondError answers known API errors with their message and status, and
// anything else with a 500 carrying internalText.
func (h *Handler) respondError(c *gin.Context, err error, internalText string) {
	if apiErr, ok := common.IsAPIError(err); ok {
		common.RespondText(c, apiErr.StatusCode, apiErr.Message)
		return
	}
	common.MarkProviderError(c, "docstore/internal-error")
	common.RespondText(c, http.StatusInternalServerError, internalText)
}
