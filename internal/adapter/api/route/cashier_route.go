package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupCashierRoutes configura as rotas do ciclo de vida da sessão de caixa
func SetupCashierRoutes(router *gin.RouterGroup, cashierController *controller.CashierController) {
	cashierRouter := router.Group("/cash-sessions")
	{
		cashierRouter.Use(auth.JWTAuthMiddleware())
		{
			cashierRouter.POST("/open", cashierController.Open)
			cashierRouter.POST("/close", cashierController.Close)
			cashierRouter.POST("/movements", cashierController.RecordMovement)
			cashierRouter.GET("/current", cashierController.GetCurrent)
			cashierRouter.GET("/:id/movements", cashierController.ListMovements)
		}
	}
}
