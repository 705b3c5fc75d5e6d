package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupPrincipalRoutes configura as rotas para administração de operadores
func SetupPrincipalRoutes(router *gin.RouterGroup, principalController *controller.PrincipalController) {
	principalRouter := router.Group("/principals")
	{
		principalRouter.Use(auth.JWTAuthMiddleware())
		{
			principalRouter.POST("", principalController.Create)
			principalRouter.GET("", principalController.List)
			principalRouter.GET("/:id", principalController.GetByID)
			principalRouter.PUT("/:id", principalController.Update)
		}
	}
}
