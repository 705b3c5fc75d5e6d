package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
	"github.com/hugohenrick/erp-pdv/internal/domain/catalog"
	"github.com/hugohenrick/erp-pdv/internal/domain/inventory"
	"github.com/hugohenrick/erp-pdv/internal/domain/sale"
	"github.com/hugohenrick/erp-pdv/internal/service"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// SaleController gerencia a finalização e o cancelamento de vendas
type SaleController struct {
	sales      *service.SaleService
	repository sale.Repository
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(sales *service.SaleService, repo sale.Repository) *SaleController {
	return &SaleController{sales: sales, repository: repo}
}

// Finalize finaliza uma venda
// @Summary Finaliza uma venda
// @Description Valida itens, pagamentos e estoque e confirma a venda em uma única transação
// @Tags sales
// @Accept json
// @Produce json
// @Param sale body service.FinalizeSaleRequest true "Pedido de finalização"
// @Success 201 {object} service.SaleResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /sales/finalize [post]
func (c *SaleController) Finalize(ctx *gin.Context) {
	var request service.FinalizeSaleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// O operador é sempre o do token, nunca o do corpo da requisição.
	request.OperatorID = auth.GetPrincipalID(ctx)

	result, err := c.sales.Finalize(ctx, request)
	if err != nil {
		switch {
		case errors.Is(err, sale.ErrNoItems),
			errors.Is(err, sale.ErrNegativeLine),
			errors.Is(err, sale.ErrInsufficientTender),
			errors.Is(err, sale.ErrChangeWithoutCash),
			errors.Is(err, cashier.ErrNoOpenSession),
			errors.Is(err, inventory.ErrInsufficient):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Venda rejeitada", err.Error()))
		case errors.Is(err, sale.ErrDiscountOverLimit):
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "Desconto acima do limite do operador", err.Error()))
		case errors.Is(err, sale.ErrPresaleNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Pré-venda não encontrada", ""))
		case errors.Is(err, sale.ErrPresaleAlreadyUsed), errors.Is(err, sale.ErrPresaleMustBeNonFiscal):
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Pré-venda inválida para consumo", err.Error()))
		case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrNoPrice):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Item inválido", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao finalizar venda", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// Cancel cancela uma venda finalizada
// @Summary Cancela uma venda
// @Description Cancela a venda, devolve o estoque e estorna o caixa e os recebíveis
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "ID da venda"
// @Param cancel body dto.CancelSaleRequest true "Motivo do cancelamento"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/cancel [post]
func (c *SaleController) Cancel(ctx *gin.Context) {
	var request dto.CancelSaleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	err := c.sales.Cancel(ctx, ctx.Param("id"), request.ReasonID, auth.GetPrincipalID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, sale.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Venda não encontrada", ""))
		case errors.Is(err, sale.ErrReasonNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Motivo de cancelamento não encontrado", ""))
		case errors.Is(err, sale.ErrAlreadyCancelled):
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Venda já está cancelada", ""))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao cancelar venda", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Venda cancelada com sucesso", nil))
}

// GetByID busca uma venda pelo ID
// @Summary Busca uma venda pelo ID
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} sale.Sale
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) GetByID(ctx *gin.Context) {
	s, err := c.repository.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Venda não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, s)
}

// ListBySession lista as vendas de uma sessão de caixa
// @Summary Lista as vendas de uma sessão
// @Tags sales
// @Produce json
// @Param session_id query string true "ID da sessão"
// @Success 200 {array} sale.Sale
// @Router /sales [get]
func (c *SaleController) ListBySession(ctx *gin.Context) {
	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da sessão não fornecido", ""))
		return
	}

	sales, err := c.repository.ListBySession(ctx, sessionID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar vendas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, sales)
}

// CreateCancellationReason cadastra um motivo de cancelamento
// @Summary Cadastra um motivo de cancelamento
// @Tags sales
// @Accept json
// @Produce json
// @Param reason body dto.CancellationReasonRequest true "Dados do motivo"
// @Success 201 {object} sale.CancellationReason
// @Failure 400 {object} dto.ErrorResponse
// @Router /cancellation-reasons [post]
func (c *SaleController) CreateCancellationReason(ctx *gin.Context) {
	var request dto.CancellationReasonRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	reason, err := sale.NewCancellationReason(request.Code, request.Description)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}

	if err := c.repository.CreateCancellationReason(ctx, reason); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar motivo", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, reason)
}

// ListCancellationReasons lista os motivos de cancelamento
// @Summary Lista os motivos de cancelamento
// @Tags sales
// @Produce json
// @Success 200 {array} sale.CancellationReason
// @Router /cancellation-reasons [get]
func (c *SaleController) ListCancellationReasons(ctx *gin.Context) {
	reasons, err := c.repository.ListCancellationReasons(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar motivos", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, reasons)
}
