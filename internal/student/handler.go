// File: internal/student/handler.go
package student

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

// InternalServerErrorText is the body of every student 500 response.
const InternalServerErrorText = "Internal Server Error"

// storeErrorCode labels document store failures, which carry no provider code.
const storeErrorCode = "docstore/internal-error"

// Handler struct holds dependencies for the student handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new student handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("StudentHandler"),
	}
}

// RegisterRoutes sets up the student routes. When corsMW is not nil it wraps
// every student route, and an OPTIONS route is added per path so preflight
// requests reach it.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, corsMW gin.HandlerFunc) {
	routes := []struct {
		path    string
		methods []string
		handler gin.HandlerFunc
	}{
		{"/createStudentV2", []string{http.MethodPost}, h.create},
		{"/getAllStudentClaimsV2", []string{http.MethodGet}, h.listAll},
		{"/deleteStudentV2", []string{http.MethodDelete}, h.delete},
		{"/updateStudentV2", []string{http.MethodPatch, http.MethodPost}, h.update},
		{"/getStudentByIdV2", []string{http.MethodGet}, h.get},
	}

	for _, rt := range routes {
		handlers := []gin.HandlerFunc{rt.handler}
		if corsMW != nil {
			handlers = []gin.HandlerFunc{corsMW, rt.handler}
			router.OPTIONS(rt.path, corsMW, func(c *gin.Context) { c.Status(http.StatusNoContent) })
		}
		router.Match(rt.methods, rt.path, handlers...)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create student: invalid request body", zap.Error(err), zap.Any("fields", common.ValidationDetails(err)))
		h.respondError(c, ErrCreateFieldsRequired)
		return
	}
	uid, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondText(c, http.StatusCreated, fmt.Sprintf("Student created successfully: %s", uid))
}

func (h *Handler) listAll(c *gin.Context) {
	students, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"students": students,
	})
}

func (h *Handler) delete(c *gin.Context) {
	var req DeleteStudentRequest
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
	common.RespondText(c, http.StatusOK, fmt.Sprintf("Student with UID %s deleted successfully.", req.UID))
}

func (h *Handler) update(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		h.respondError(c, ErrUIDQueryRequired)
		return
	}
	var req UpdateStudentRequest
	if !h.bindOptionalBody(c, &req) {
		return
	}
	if err := h.service.Update(c.Request.Context(), uid, req); err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondText(c, http.StatusOK, fmt.Sprintf("Student with UID %s updated successfully.", uid))
}

func (h *Handler) get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Query("uid"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"student": student,
	})
}

func (h *Handler) bindOptionalBody(c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid JSON request body", zap.String("path", c.Request.URL.Path), zap.Error(err))
		common.RespondText(c, http.StatusBadRequest, "Request body must be a JSON object.")
		return false
	}
	return true
}

// respondError answers validation failures with their text and every other
// failure with a plain 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	if apiErr, ok := common.IsAPIError(err); ok {
		common.RespondText(c, apiErr.StatusCode, apiErr.Message)
		return
	}
	var de *directory.Error
	if errors.As(err, &de) {
		common.MarkProviderError(c, de.Code)
	} else {
		common.MarkProviderError(c, storeErrorCode)
	}
	common.RespondText(c, http.StatusInternalServerError, InternalServerErrorText)
}
