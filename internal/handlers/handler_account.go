package handlers

import (
	"log/slog"
	"net/http"

	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/dto"
	"bizledger/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// registerAccountRoutes registers account routes on the company group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := &accountHandler{accountService: accountService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.POST("/:accountID/adjust", h.adjustBalance)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), companyID, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Account created", dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), companyID, accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccounts", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", dto.ToListAccountResponse(accounts))
}

func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), companyID, accountID, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Account updated", dto.ToAccountResponse(account))
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	if err := h.accountService.SoftDeleteAccount(c.Request.Context(), companyID, accountID, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Account deactivated", nil)
}

// adjustBalanceRequest applies a raw signed delta to an account balance.
// This is the registry primitive; it bypasses double entry and exists for
// opening-balance corrections.
type adjustBalanceRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

func (h *accountHandler) adjustBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	var req adjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustBalance", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	if err := h.accountService.AdjustBalance(c.Request.Context(), companyID, accountID, req.Delta, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), companyID, accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Balance adjusted", dto.ToAccountResponse(account))
}
