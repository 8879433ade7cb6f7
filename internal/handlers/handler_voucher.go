package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/core/services"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
	"github.com/voucherworks/voucher_ledger_app/internal/middleware"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(voucherService portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: voucherService}
}

// respondVoucherMutationError translates mutation errors to HTTP statuses.
func respondVoucherMutationError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrImbalanced),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidReference),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, services.ErrVoucherMinLineItems),
		errors.Is(err, services.ErrNotPosted),
		errors.Is(err, services.ErrOverReversal),
		errors.Is(err, services.ErrReversalSideMismatch),
		errors.Is(err, services.ErrDuplicateLineItemRef):
		logger.Warn("Validation error on voucher "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action+" voucher", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " voucher"})
	}
}

// createVoucher godoc
// @Summary Create a voucher
// @Description Creates a balanced voucher with its line items, asset links and optional reversal instructions
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   voucher body dto.SaveVoucherRequest true "Voucher payload"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid request or imbalanced voucher"
// @Failure 500 {object} map[string]string "Failed to create voucher"
// @Router /books/{bookID}/vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	var req dto.SaveVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), bookID, req, creatorUserID)
	if err != nil {
		respondVoucherMutationError(c, logger, err, "create")
		return
	}

	logger.Info("Voucher created", slog.String("voucher_id", voucher.VoucherID))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// getVoucher godoc
// @Summary Get a voucher
// @Description Retrieves a voucher with its line items by ID
// @Tags vouchers
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /books/{bookID}/vouchers/{voucherID} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")
	voucherID := c.Param("voucherID")

	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), bookID, voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
			return
		}
		logger.Error("Failed to get voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voucher"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// getVoucherByNumber godoc
// @Summary Get a voucher by its per-book number
// @Tags vouchers
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   voucherNumber path int true "Voucher number"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /books/{bookID}/vouchers/by-number/{voucherNumber} [get]
func (h *voucherHandler) getVoucherByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	voucherNumber, err := strconv.ParseInt(c.Param("voucherNumber"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid voucher number"})
		return
	}

	voucher, err := h.voucherService.GetVoucherByNumber(c.Request.Context(), bookID, voucherNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
			return
		}
		logger.Error("Failed to get voucher by number", slog.String("error", err.Error()), slog.Int64("voucher_number", voucherNumber))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voucher"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// getVoucherDetail godoc
// @Summary Get a voucher with its AP/AR netting
// @Description Retrieves a voucher plus the outstanding payable/receivable exposure derived from its event graph
// @Tags vouchers
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherDetailResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /books/{bookID}/vouchers/{voucherID}/detail [get]
func (h *voucherHandler) getVoucherDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")
	voucherID := c.Param("voucherID")

	voucher, netting, err := h.voucherService.GetVoucherDetail(c.Request.Context(), bookID, voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher or account setting not found"})
			return
		}
		logger.Error("Failed to get voucher detail", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve voucher detail"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherDetailResponse(voucher, netting))
}

// listVouchers godoc
// @Summary List vouchers of a book
// @Description Retrieves a paginated list of vouchers, newest first. Mirror vouchers are excluded.
// @Tags vouchers
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Cursor from the previous page"
// @Param   includeDeleted query bool false "Include soft-deleted vouchers"
// @Success 200 {object} dto.ListVouchersResponse
// @Router /books/{bookID}/vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.voucherService.ListVouchers(c.Request.Context(), bookID, params)
	if err != nil {
		logger.Error("Failed to list vouchers", slog.String("error", err.Error()), slog.String("book_id", bookID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vouchers"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateVoucher godoc
// @Summary Update a voucher
// @Description Edits metadata in place when the line items are unchanged; otherwise supersedes the voucher with a new one behind an offsetting mirror
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   voucherID path string true "Voucher ID"
// @Param   voucher body dto.SaveVoucherRequest true "Voucher payload"
// @Success 200 {object} dto.VoucherResponse "The voucher that is live after the edit"
// @Failure 400 {object} map[string]string "Invalid request or imbalanced voucher"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /books/{bookID}/vouchers/{voucherID} [put]
func (h *voucherHandler) updateVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")
	voucherID := c.Param("voucherID")

	var req dto.SaveVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	voucher, err := h.voucherService.UpdateVoucher(c.Request.Context(), bookID, voucherID, req, requestingUserID)
	if err != nil {
		respondVoucherMutationError(c, logger, err, "update")
		return
	}

	logger.Info("Voucher updated", slog.String("voucher_id", voucher.VoucherID))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// deleteVoucher godoc
// @Summary Delete a voucher
// @Description Soft-deletes a voucher behind a synthetic mirror voucher that offsets it exactly
// @Tags vouchers
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.MutationResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /books/{bookID}/vouchers/{voucherID} [delete]
func (h *voucherHandler) deleteVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")
	voucherID := c.Param("voucherID")

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.voucherService.DeleteVoucher(c.Request.Context(), bookID, voucherID, requestingUserID); err != nil {
		respondVoucherMutationError(c, logger, err, "delete")
		return
	}

	logger.Info("Voucher deleted", slog.String("voucher_id", voucherID))
	c.JSON(http.StatusOK, dto.MutationResponse{VoucherID: voucherID})
}

// restoreVoucher godoc
// @Summary Restore a deleted voucher
// @Description Undoes a delete within the restore window, removing the mirror voucher and its event
// @Tags vouchers
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 403 {object} map[string]string "Restore window elapsed"
// @Failure 404 {object} map[string]string "Voucher not found or not deleted"
// @Router /books/{bookID}/vouchers/{voucherID}/restore [post]
func (h *voucherHandler) restoreVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")
	voucherID := c.Param("voucherID")

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	voucher, err := h.voucherService.RestoreVoucher(c.Request.Context(), bookID, voucherID, requestingUserID)
	if err != nil {
		respondVoucherMutationError(c, logger, err, "restore")
		return
	}

	logger.Info("Voucher restored", slog.String("voucher_id", voucherID))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// registerVoucherRoutes registers voucher specific routes under a book group.
func registerVoucherRoutes(group *gin.RouterGroup, voucherSvc portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherSvc)

	vouchers := group.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/by-number/:voucherNumber", h.getVoucherByNumber)
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.GET("/:voucherID/detail", h.getVoucherDetail)
		vouchers.PUT("/:voucherID", h.updateVoucher)
		vouchers.DELETE("/:voucherID", h.deleteVoucher)
		vouchers.POST("/:voucherID/restore", h.restoreVoucher)
	}
}
