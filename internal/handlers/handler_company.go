package handlers

import (
	"log/slog"
	"net/http"

	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/dto"
	"bizledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// companyHandler handles company creation and policy-account designation.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

// registerCompanyRoutes registers the company-level routes.
func registerCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySvcFacade) {
	h := &companyHandler{companyService: companyService}

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("/:companyID", h.getCompany)
		companies.PUT("/:companyID/designations", h.designateAccounts)
	}
}

func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCompany", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Company created", dto.ToCompanyResponse(company))
}

func (h *companyHandler) getCompany(c *gin.Context) {
	companyID := c.Param("companyID")

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "", dto.ToCompanyResponse(company))
}

func (h *companyHandler) designateAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.DesignateAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DesignateAccounts", slog.String("error", err.Error()))
		respondErrorMsg(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	company, err := h.companyService.DesignateAccounts(c.Request.Context(), companyID, req, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Policy accounts designated", dto.ToCompanyResponse(company))
}
