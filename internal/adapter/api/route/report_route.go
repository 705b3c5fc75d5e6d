package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupReportRoutes configura as rotas de relatórios
func SetupReportRoutes(router *gin.RouterGroup, reportController *controller.ReportController) {
	reportRouter := router.Group("/reports")
	{
		reportRouter.Use(auth.JWTAuthMiddleware())
		{
			reportRouter.GET("/dashboard", reportController.Dashboard)
			reportRouter.GET("/cash-flow", reportController.CashFlow)
			reportRouter.GET("/top-expenses", reportController.TopExpenses)
			reportRouter.GET("/statement", reportController.AccountStatement)
			reportRouter.GET("/dre", reportController.DRE)
			reportRouter.GET("/sales-by-session", reportController.SalesBySession)
			reportRouter.GET("/sales-by-product", reportController.SalesByProduct)
			reportRouter.GET("/pending-non-fiscal", reportController.PendingNonFiscal)
		}
	}
}
