package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupLedgerRoutes configura as rotas do razão financeiro
func SetupLedgerRoutes(router *gin.RouterGroup, ledgerController *controller.LedgerController) {
	ledgerRouter := router.Group("/ledger")
	{
		ledgerRouter.Use(auth.JWTAuthMiddleware())
		{
			ledgerRouter.POST("/accounts", ledgerController.CreateAccount)
			ledgerRouter.GET("/accounts", ledgerController.ListAccounts)
			ledgerRouter.GET("/accounts/:id", ledgerController.GetAccount)

			ledgerRouter.POST("/categories", ledgerController.CreateCategory)
			ledgerRouter.GET("/categories", ledgerController.ListCategories)

			ledgerRouter.POST("/cost-centers", ledgerController.CreateCostCenter)
			ledgerRouter.GET("/cost-centers", ledgerController.ListCostCenters)

			ledgerRouter.POST("/titles", ledgerController.CreateTitle)
			ledgerRouter.GET("/titles/:id", ledgerController.GetTitle)

			ledgerRouter.GET("/installments", ledgerController.ListInstallmentsByDue)
			ledgerRouter.POST("/installments/:id/settle", ledgerController.Settle)
			ledgerRouter.POST("/installments/:id/reverse", ledgerController.Reverse)
			ledgerRouter.PUT("/installments/:id", ledgerController.UpdateInstallment)
			ledgerRouter.DELETE("/installments/:id", ledgerController.DeleteInstallment)

			ledgerRouter.POST("/movements", ledgerController.RecordMovement)
			ledgerRouter.PATCH("/movements/:id/reconcile", ledgerController.Reconcile)
			ledgerRouter.POST("/transfers", ledgerController.Transfer)
		}
	}
}
