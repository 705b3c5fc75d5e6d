package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupOrganizationRoutes configura as rotas de organizações, estabelecimentos
// e terminais
func SetupOrganizationRoutes(router *gin.RouterGroup, organizationController *controller.OrganizationController) {
	orgRouter := router.Group("/organizations")
	{
		orgRouter.Use(auth.JWTAuthMiddleware())
		{
			orgRouter.POST("", organizationController.Create)
			orgRouter.GET("", organizationController.List)
			orgRouter.GET("/:id", organizationController.GetByID)
			orgRouter.PUT("/:id", organizationController.Update)
			orgRouter.PUT("/:id/certificate", organizationController.StoreCertificate)
		}
	}

	placeRouter := router.Group("/places")
	{
		placeRouter.Use(auth.JWTAuthMiddleware())
		{
			placeRouter.POST("", organizationController.CreatePlace)
			placeRouter.GET("", organizationController.ListPlaces)
			placeRouter.GET("/:id/document", organizationController.EffectiveDocument)
		}
	}

	terminalRouter := router.Group("/terminals")
	{
		terminalRouter.Use(auth.JWTAuthMiddleware())
		{
			terminalRouter.POST("", organizationController.CreateTerminal)
			terminalRouter.GET("", organizationController.ListTerminals)
			terminalRouter.PUT("/:id", organizationController.UpdateTerminal)
			terminalRouter.GET("/hostname/:hostname", organizationController.GetTerminalByHostname)
		}
	}
}
