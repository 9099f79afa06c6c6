package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type errorStatus struct {
	err    error
	status int
}

// Checked in order with errors.Is, first match wins.
var errorStatusMap = []errorStatus{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrInvalidSignature, http.StatusBadRequest},
	{domain.ErrDataNotFound, http.StatusNotFound},
	{domain.ErrConflictingData, http.StatusConflict},
	{domain.ErrOrderPersistence, http.StatusInternalServerError},
	{domain.ErrUpstream, http.StatusInternalServerError},
	{domain.ErrInternal, http.StatusInternalServerError},
}

func statusForError(err error) (int, error) {
	for _, es := range errorStatusMap {
		if errors.Is(err, es.err) {
			return es.status, es.err
		}
	}
	return http.StatusInternalServerError, domain.ErrInternal
}

type jsonDecimal decimal.Decimal

func (j jsonDecimal) MarshalJSON() ([]byte, error) {
	s := fmt.Sprintf("%.2f", decimal.Decimal(j))
	return []byte(s), nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Handler struct {
	logger        *zap.Logger
	exposeDetails bool
}

// NewHandler builds the shared handler base. With exposeDetails set,
// server errors carry their cause in the response body.
func NewHandler(logger *zap.Logger, exposeDetails bool) *Handler {
	return &Handler{logger: logger, exposeDetails: exposeDetails}
}

// handleValidationError sends a 400 response for a malformed request
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	h.handleError(ctx, fmt.Errorf("%w: %v", domain.ErrValidation, err))
}

// handleAbort sends an error response and aborts the request
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	h.handleError(ctx, err)
	ctx.Abort()
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, kind := statusForError(err)
	_ = ctx.Error(err)

	resp := errorResponse{Error: kind.Error()}
	if statusCode < http.StatusInternalServerError {
		// client errors are safe to explain
		resp.Error = err.Error()
	} else {
		h.logger.Error("error processing request",
			zap.String("path", ctx.FullPath()), zap.Error(err))
		if h.exposeDetails {
			resp.Details = err.Error()
		}
	}
	ctx.JSON(statusCode, resp)
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
