package handlers

import (
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")

	registerCompanyRoutes(v1, services.Company)

	// Everything below is scoped to one company.
	company := v1.Group("/companies/:companyID")
	registerAccountRoutes(company, services.Account)
	registerTransactionRoutes(company, services.Ledger, services.Account)
	registerStrategyRoutes(company, services.Strategy, services.Account)
}
