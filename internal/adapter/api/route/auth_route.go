package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		// Rota de login (não requer autenticação)
		authRouter.POST("/login", authController.Login)

		// Rotas do operador logado (requerem autenticação)
		authRouter.GET("/me", auth.JWTAuthMiddleware(), authController.Me)
		authRouter.PATCH("/theme", auth.JWTAuthMiddleware(), authController.UpdateTheme)
	}
}
