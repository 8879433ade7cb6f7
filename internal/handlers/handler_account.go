package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voucherworks/voucher_ledger_app/internal/apperrors"
	portssvc "github.com/voucherworks/voucher_ledger_app/internal/core/ports/services"
	"github.com/voucherworks/voucher_ledger_app/internal/dto"
	"github.com/voucherworks/voucher_ledger_app/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts and the
// per-book AP/AR designation.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: accountService}
}

// createAccount godoc
// @Summary Create an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   account body dto.CreateAccountRequest true "Account payload"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid request or duplicate code"
// @Router /books/{bookID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	account, err := h.accountService.CreateAccount(c.Request.Context(), bookID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create account", slog.String("error", err.Error()), slog.String("book_id", bookID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts of a book
// @Tags accounts
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Router /books/{bookID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), bookID)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.String("book_id", bookID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve accounts"})
		return
	}

	resp := dto.ListAccountsResponse{Accounts: make([]dto.AccountResponse, len(accounts))}
	for i := range accounts {
		resp.Accounts[i] = dto.ToAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /books/{bookID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), bookID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to get account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountSetting godoc
// @Summary Get the AP/AR code designation of a book
// @Tags accounts
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 200 {object} dto.AccountSettingResponse
// @Failure 404 {object} map[string]string "No designation configured"
// @Router /books/{bookID}/settings/accounts [get]
func (h *accountHandler) getAccountSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	setting, err := h.accountService.GetAccountSetting(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No account setting configured for this book"})
			return
		}
		logger.Error("Failed to get account setting", slog.String("error", err.Error()), slog.String("book_id", bookID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account setting"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountSettingResponse(setting))
}

// saveAccountSetting godoc
// @Summary Set the AP/AR code designation of a book
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   setting body dto.SaveAccountSettingRequest true "Code designation"
// @Success 200 {object} dto.AccountSettingResponse
// @Failure 400 {object} map[string]string "Unknown or conflicting codes"
// @Router /books/{bookID}/settings/accounts [put]
func (h *accountHandler) saveAccountSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	var req dto.SaveAccountSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)

	setting, err := h.accountService.SaveAccountSetting(c.Request.Context(), bookID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidReference) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to save account setting", slog.String("error", err.Error()), slog.String("book_id", bookID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save account setting"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountSettingResponse(setting))
}

// registerAccountRoutes registers account specific routes under a book group.
func registerAccountRoutes(group *gin.RouterGroup, accountSvc portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountSvc)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
	}

	settings := group.Group("/settings")
	{
		settings.GET("/accounts", h.getAccountSetting)
		settings.PUT("/accounts", h.saveAccountSetting)
	}
}
