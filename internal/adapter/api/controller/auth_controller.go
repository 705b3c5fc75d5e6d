package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
	"github.com/hugohenrick/erp-pdv/internal/service"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// AuthController gerencia a autenticação de operadores
type AuthController struct {
	principals *service.PrincipalService
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(principals *service.PrincipalService) *AuthController {
	return &AuthController{principals: principals}
}

// Login autentica um operador
// @Summary Autentica um operador
// @Description Autentica por login e senha e retorna o token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	result, err := c.principals.Login(ctx, request.Handle, request.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, principal.ErrNotActive) {
			ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Falha na autenticação", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao autenticar", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{Token: result.Token, Principal: result.Principal})
}

// Me retorna o operador autenticado
// @Summary Retorna o operador autenticado
// @Description Retorna os dados e o mapa de permissões do operador do token
// @Tags auth
// @Produce json
// @Success 200 {object} principal.Principal
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	id := auth.GetPrincipalID(ctx)
	if id == "" {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Autenticação requerida", ""))
		return
	}

	p, err := c.principals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Operador não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar operador", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// UpdateTheme grava a preferência de tema do operador autenticado
// @Summary Troca o tema do operador
// @Description Grava a preferência de tema do próprio operador
// @Tags auth
// @Accept json
// @Produce json
// @Param theme body dto.ThemeRequest true "Tema (light/dark)"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/theme [patch]
func (c *AuthController) UpdateTheme(ctx *gin.Context) {
	var request dto.ThemeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	id := auth.GetPrincipalID(ctx)
	if err := c.principals.UpdateTheme(ctx, id, principal.Theme(request.Theme)); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar tema", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Tema atualizado com sucesso", nil))
}
