package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/adapter/repository"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
	"github.com/hugohenrick/erp-pdv/internal/service"
)

// PrincipalController gerencia as requisições de administração de operadores
type PrincipalController struct {
	principals *service.PrincipalService
}

// NewPrincipalController cria uma nova instância de PrincipalController
func NewPrincipalController(principals *service.PrincipalService) *PrincipalController {
	return &PrincipalController{principals: principals}
}

// Create cria um novo operador
// @Summary Cria um novo operador
// @Description Cria um novo operador com seu mapa de permissões
// @Tags principals
// @Accept json
// @Produce json
// @Param principal body dto.PrincipalRequest true "Dados do operador"
// @Success 201 {object} principal.Principal
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /principals [post]
func (c *PrincipalController) Create(ctx *gin.Context) {
	var request dto.PrincipalRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	if request.Password == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Senha requerida", "A senha é obrigatória para novos operadores"))
		return
	}

	p, err := c.principals.Create(ctx, request.Handle, request.Name, request.Password, request.Capabilities)
	if err != nil {
		if errors.Is(err, repository.ErrPrincipalDuplicateHandle) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Operador com mesmo login já existe", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar operador", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// GetByID busca um operador pelo ID
// @Summary Busca um operador pelo ID
// @Tags principals
// @Produce json
// @Param id path string true "ID do operador"
// @Success 200 {object} principal.Principal
// @Failure 404 {object} dto.ErrorResponse
// @Router /principals/{id} [get]
func (c *PrincipalController) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

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

// List lista os operadores com paginação
// @Summary Lista os operadores
// @Tags principals
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} principal.Principal
// @Failure 500 {object} dto.ErrorResponse
// @Router /principals [get]
func (c *PrincipalController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	pagination := dto.GetPagination(page, pageSize)
	offset := (pagination.Page - 1) * pagination.PageSize

	principals, err := c.principals.List(ctx, pagination.PageSize, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar operadores", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, principals)
}

// Update atualiza um operador
// @Summary Atualiza um operador
// @Description Atualiza nome, permissões e situação; a senha só muda quando informada
// @Tags principals
// @Accept json
// @Produce json
// @Param id path string true "ID do operador"
// @Param principal body dto.PrincipalRequest true "Dados do operador"
// @Success 200 {object} principal.Principal
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /principals/{id} [put]
func (c *PrincipalController) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var request dto.PrincipalRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	p, err := c.principals.Update(ctx, id, request.Name, request.Password, request.Capabilities, request.Active)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Operador não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar operador", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, p)
}
