package handlers

import (
	"log/slog"
	"net/http"

	"bizledger/internal/core/domain"
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/dto"
	"bizledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// transactionHandler handles direct ledger postings and transaction reads.
type transactionHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	accountService portssvc.AccountSvcFacade
}

// registerTransactionRoutes registers transaction routes on the company group.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, accountService portssvc.AccountSvcFacade) {
	h := &transactionHandler{ledgerService: ledgerService, accountService: accountService}

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.postEntry)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.PATCH("/:transactionID", h.updateTransaction)
		transactions.POST("/:transactionID/void", h.voidTransaction)
	}
}

func (h *transactionHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	legs := make([]portssvc.EntryLeg, len(req.Legs))
	for i, leg := range req.Legs {
		legs[i] = portssvc.EntryLeg{
			AccountID:   leg.AccountID,
			Debit:       leg.Debit,
			Credit:      leg.Credit,
			Description: leg.Description,
		}
	}

	txn, err := h.ledgerService.PostEntry(c.Request.Context(), companyID, portssvc.EntryInput{
		Date:           req.Date,
		Description:    req.Description,
		Kind:           domain.KindGeneral,
		ExternalSource: req.ExternalSource,
		Legs:           legs,
	}, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := postingResponse(c, h.accountService, companyID, txn)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Entry posted", data)
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), companyID, transactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}

	txns, err := h.ledgerService.ListTransactions(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", dto.ToListTransactionResponse(txns))
}

func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	txn, err := h.ledgerService.UpdateTransaction(c.Request.Context(), companyID, transactionID, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Transaction updated", dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) voidTransaction(c *gin.Context) {
	companyID := c.Param("companyID")
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.VoidTransaction(c.Request.Context(), companyID, transactionID, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := postingResponse(c, h.accountService, companyID, txn)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Transaction voided", data)
}
