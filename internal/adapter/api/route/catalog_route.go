package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupCatalogRoutes configura as rotas de produtos, preços e depósitos
func SetupCatalogRoutes(router *gin.RouterGroup, catalogController *controller.CatalogController) {
	productRouter := router.Group("/products")
	{
		productRouter.Use(auth.JWTAuthMiddleware())
		{
			productRouter.POST("", catalogController.Create)
			productRouter.GET("", catalogController.List)
			productRouter.GET("/resolve/:code", catalogController.Resolve)
			productRouter.GET("/:id", catalogController.GetByID)
			productRouter.PUT("/:id/price", catalogController.SetPrice)
			productRouter.GET("/:id/price", catalogController.GetPrice)
			productRouter.GET("/:id/stock", catalogController.GetStock)
		}
	}

	tableRouter := router.Group("/price-tables")
	{
		tableRouter.Use(auth.JWTAuthMiddleware())
		tableRouter.POST("", catalogController.CreatePriceTable)
	}

	warehouseRouter := router.Group("/warehouses")
	{
		warehouseRouter.Use(auth.JWTAuthMiddleware())
		{
			warehouseRouter.POST("", catalogController.CreateWarehouse)
			warehouseRouter.GET("", catalogController.ListWarehouses)
		}
	}
}
