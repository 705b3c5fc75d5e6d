package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupSaleRoutes configura as rotas de vendas
func SetupSaleRoutes(router *gin.RouterGroup, saleController *controller.SaleController) {
	saleRouter := router.Group("/sales")
	{
		saleRouter.Use(auth.JWTAuthMiddleware())
		{
			saleRouter.POST("/finalize", saleController.Finalize)
			saleRouter.GET("", saleController.ListBySession)
			saleRouter.GET("/:id", saleController.GetByID)
			saleRouter.POST("/:id/cancel", saleController.Cancel)
		}
	}

	reasonRouter := router.Group("/cancellation-reasons")
	{
		reasonRouter.Use(auth.JWTAuthMiddleware())
		{
			reasonRouter.POST("", saleController.CreateCancellationReason)
			reasonRouter.GET("", saleController.ListCancellationReasons)
		}
	}
}
