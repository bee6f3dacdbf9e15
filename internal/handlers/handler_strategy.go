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

// strategyHandler exposes the higher-level transaction types. Every endpoint
// returns the posted transaction plus fresh balances of the touched accounts.
type strategyHandler struct {
	strategyService portssvc.StrategySvcFacade
	accountService  portssvc.AccountSvcFacade
}

// registerStrategyRoutes registers strategy routes on the company group.
func registerStrategyRoutes(rg *gin.RouterGroup, strategyService portssvc.StrategySvcFacade, accountService portssvc.AccountSvcFacade) {
	h := &strategyHandler{strategyService: strategyService, accountService: accountService}

	strategies := rg.Group("/strategies")
	{
		strategies.POST("/simple-entry", h.simpleEntry)
		strategies.POST("/liability", h.createLiability)
		strategies.POST("/micro-transaction", h.microTransfer)
		strategies.POST("/external-investment", h.externalInvestment)
		strategies.POST("/investor-exit", h.investorExit)
		strategies.POST("/profit-distribution", h.distributeProfit)
		strategies.POST("/asset-protection", h.protectAssets)
	}
}

// post binds the request, runs the strategy and writes the posting envelope.
func post[Req any](h *strategyHandler, c *gin.Context, name string, run func(ctx *gin.Context, companyID string, req Req) (*domain.Transaction, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for "+name, slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	txn, err := run(c, companyID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := postingResponse(c, h.accountService, companyID, txn)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, name+" posted", data)
}

func (h *strategyHandler) simpleEntry(c *gin.Context) {
	post(h, c, "Simple entry", func(c *gin.Context, companyID string, req dto.SimpleEntryRequest) (*domain.Transaction, error) {
		return h.strategyService.SimpleEntry(c.Request.Context(), companyID, req, actorFrom(c))
	})
}

func (h *strategyHandler) createLiability(c *gin.Context) {
	post(h, c, "Liability", func(c *gin.Context, companyID string, req dto.CreateLiabilityRequest) (*domain.Transaction, error) {
		return h.strategyService.CreateLiability(c.Request.Context(), companyID, req, actorFrom(c))
	})
}

func (h *strategyHandler) microTransfer(c *gin.Context) {
	post(h, c, "Micro transaction", func(c *gin.Context, companyID string, req dto.MicroTransferRequest) (*domain.Transaction, error) {
		return h.strategyService.MicroTransfer(c.Request.Context(), companyID, req, actorFrom(c))
	})
}

func (h *strategyHandler) externalInvestment(c *gin.Context) {
	post(h, c, "External investment", func(c *gin.Context, companyID string, req dto.ExternalInvestmentRequest) (*domain.Transaction, error) {
		return h.strategyService.ExternalInvestment(c.Request.Context(), companyID, req, actorFrom(c))
	})
}

func (h *strategyHandler) investorExit(c *gin.Context) {
	post(h, c, "Investor exit", func(c *gin.Context, companyID string, req dto.InvestorExitRequest) (*domain.Transaction, error) {
		return h.strategyService.InvestorExit(c.Request.Context(), companyID, req, actorFrom(c))
	})
}

func (h *strategyHandler) distributeProfit(c *gin.Context) {
	post(h, c, "Profit distribution", func(c *gin.Context, companyID string, req dto.ProfitDistributionRequest) (*domain.Transaction, error) {
		return h.strategyService.DistributeProfit(c.Request.Context(), companyID, req, actorFrom(c))
	})
}

func (h *strategyHandler) protectAssets(c *gin.Context) {
	post(h, c, "Asset protection", func(c *gin.Context, companyID string, req dto.AssetProtectionRequest) (*domain.Transaction, error) {
		return h.strategyService.ProtectAssets(c.Request.Context(), companyID, req, actorFrom(c))
	})
}
