package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT
func JWTAuthMiddleware() gin.HandlerFunc {
	jwtService, err := NewJWTService()
	if err != nil {
		// Se não conseguir criar o serviço JWT, retornar erro 500
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
				http.StatusInternalServerError,
				"Erro ao configurar autenticação",
				"O serviço JWT não foi inicializado corretamente",
			))
		}
	}

	return func(c *gin.Context) {
		// Obter o token do cabeçalho Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}

		// Validar o token
		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if err == ErrExpiredToken {
				message = "Token expirado"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		// Armazenar o operador resolvido no contexto
		c.Set("principal_id", claims.PrincipalID)
		c.Set("principal_handle", claims.Handle)

		c.Next()
	}
}

// GetPrincipalID obtém o id do operador atual do contexto
func GetPrincipalID(c *gin.Context) string {
	v, _ := c.Get("principal_id")
	id, _ := v.(string)
	return id
}
