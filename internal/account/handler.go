// File: internal/account/handler.go
package account

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"campus_identity_backend/internal/common"
	"campus_identity_backend/internal/directory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for the account handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new account handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("AccountHandler"),
	}
}

// RegisterRoutes sets up the account routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/createUserV2", h.create)
	router.Match([]string{http.MethodPost, http.MethodDelete}, "/deleteUser", h.delete)
	router.Match([]string{http.MethodPost, http.MethodPut, http.MethodPatch}, "/updateUserV2", h.update)
	router.Match([]string{http.MethodPost, http.MethodPatch}, "/setPasswordUserAccountV2", h.setPassword)
	router.GET("/getUsersV2", h.get)
	router.GET("/getAllUsersV2", h.listAll)
	router.GET("/getUserByEmailV2", h.getByEmail)
	router.Match([]string{http.MethodGet, http.MethodPost}, "/checkUserExistenceByEmailV2", h.checkExistence)
	router.POST("/setCustomUserClaimsV2", h.setClaims)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create user: invalid request body", zap.Error(err), zap.Any("fields", common.ValidationDetails(err)))
		h.respondError(c, ErrCreateFieldsRequired)
		return
	}
	summary, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, "User created successfully", gin.H{"user": summary})
}

func (h *Handler) delete(c *gin.Context) {
	var req UIDRequest
	if !h.bindOptionalBody(c, &req) {
		return
	}
	if req.UID == "" {
		req.UID = c.Query("uid")
	}
	if err := h.service.Delete(c.Request.Context(), req.UID); err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, fmt.Sprintf("User with UID %s deleted successfully.", req.UID), nil)
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateAccountRequest
	if !h.bindOptionalBody(c, &req) {
		return
	}
	if req.UID == "" {
		req.UID = c.Query("uid")
	}
	summary, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "User updated successfully.", gin.H{"user": summary})
}

func (h *Handler) setPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Set password: invalid request body", zap.Error(err), zap.Any("fields", common.ValidationDetails(err)))
		h.respondError(c, ErrPasswordFieldsRequired)
		return
	}
	if err := h.service.SetPassword(c.Request.Context(), req.UID, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, fmt.Sprintf("Password for user %s updated successfully.", req.UID), nil)
}

func (h *Handler) get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Query("uid"), c.Query("email"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "User retrieved successfully.", gin.H{"user": detail})
}

func (h *Handler) listAll(c *gin.Context) {
	users, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "Users retrieved successfully.", gin.H{
		"users": users,
		"count": len(users),
	})
}

func (h *Handler) getByEmail(c *gin.Context) {
	detail, err := h.service.GetByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		if directory.IsNotFound(err) {
			common.RespondFailureWithCode(c, http.StatusNotFound, "User not found.", directory.CodeUserNotFound)
			return
		}
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "User retrieved successfully.", gin.H{"user": detail})
}

func (h *Handler) checkExistence(c *gin.Context) {
	var req EmailRequest
	if c.Request.Method != http.MethodGet && !h.bindOptionalBody(c, &req) {
		return
	}
	if req.Email == "" {
		req.Email = c.Query("email")
	}
	exists, err := h.service.Exists(c.Request.Context(), req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	message := "User does not exist."
	if exists {
		message = "User exists."
	}
	common.RespondSuccess(c, http.StatusOK, message, gin.H{"exists": exists})
}

func (h *Handler) setClaims(c *gin.Context) {
	var req SetClaimsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Set custom claims: invalid request body", zap.Error(err))
		h.respondError(c, ErrClaimsFieldsRequired)
		return
	}
	if err := h.service.SetClaims(c.Request.Context(), req.UID, req.Claims); err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, fmt.Sprintf("Custom claims set for user %s.", req.UID), nil)
}

// bindOptionalBody decodes a JSON body when one is present. A malformed body
// is answered with 400 and false is returned.
func (h *Handler) bindOptionalBody(c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid JSON request body", zap.String("path", c.Request.URL.Path), zap.Error(err))
		common.RespondFailure(c, http.StatusBadRequest, "Request body must be a JSON object.")
		return false
	}
	return true
}

// respondError shapes validation failures as 400 and anything else as a
// provider error carrying the provider's code and message.
func (h *Handler) respondError(c *gin.Context, err error) {
	if apiErr, ok := common.IsAPIError(err); ok {
		common.RespondFailure(c, apiErr.StatusCode, apiErr.Message)
		return
	}
	de := directory.AsError(err)
	common.RespondProviderError(c, http.StatusInternalServerError, de.Message, de.Code)
}
