package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
	"github.com/hugohenrick/erp-pdv/internal/service"
	"github.com/hugohenrick/erp-pdv/pkg/auth"
)

// CashierController gerencia o ciclo de vida das sessões de caixa
type CashierController struct {
	cashiers *service.CashierService
	sessions cashier.Repository
}

// NewCashierController cria uma nova instância de CashierController
func NewCashierController(cashiers *service.CashierService, sessions cashier.Repository) *CashierController {
	return &CashierController{cashiers: cashiers, sessions: sessions}
}

// Open abre uma sessão de caixa
// @Summary Abre uma sessão de caixa
// @Description Abre a sessão de caixa do terminal com o fundo de troco informado
// @Tags cashier
// @Accept json
// @Produce json
// @Param session body dto.OpenSessionRequest true "Dados da abertura"
// @Success 201 {object} cashier.Session
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /cash-sessions/open [post]
func (c *CashierController) Open(ctx *gin.Context) {
	var request dto.OpenSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	session, err := c.cashiers.Open(ctx, request.TerminalID, auth.GetPrincipalID(ctx), request.OpeningFloat)
	if err != nil {
		if errors.Is(err, cashier.ErrAlreadyOpen) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Já existe sessão aberta para este terminal", ""))
			return
		}
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Erro ao abrir sessão de caixa", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

// RecordMovement registra uma sangria ou suprimento
// @Summary Registra sangria ou suprimento
// @Description Registra uma movimentação manual na sessão aberta do terminal
// @Tags cashier
// @Accept json
// @Produce json
// @Param movement body dto.CashMovementRequest true "Dados da movimentação"
// @Success 201 {object} cashier.Movement
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /cash-sessions/movements [post]
func (c *CashierController) RecordMovement(ctx *gin.Context) {
	var request dto.CashMovementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	movement, err := c.cashiers.RecordMovement(ctx, request.TerminalID, cashier.MovementKind(request.Kind), request.Amount, request.Reason, request.AuthorizerID)
	if err != nil {
		if errors.Is(err, cashier.ErrNoOpenSession) {
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Não há sessão de caixa aberta para este terminal", ""))
			return
		}
		if errors.Is(err, cashier.ErrInvalidAmount) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Valor inválido", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao registrar movimentação", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, movement)
}

// Close fecha a sessão de caixa
// @Summary Fecha a sessão de caixa
// @Description Fecha a sessão aberta do terminal comparando declarado e esperado
// @Tags cashier
// @Accept json
// @Produce json
// @Param session body dto.CloseSessionRequest true "Dados do fechamento"
// @Success 200 {object} cashier.Session
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /cash-sessions/close [post]
func (c *CashierController) Close(ctx *gin.Context) {
	var request dto.CloseSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	session, err := c.cashiers.Close(ctx, request.TerminalID, auth.GetPrincipalID(ctx), request.Declared, request.AuthorizerID)
	if err != nil {
		if errors.Is(err, cashier.ErrNoOpenSession) {
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Não há sessão de caixa aberta para este terminal", ""))
			return
		}
		if errors.Is(err, cashier.ErrCloseNeedsAuthorizer) {
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "Fechamento com divergência exige autorização", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao fechar sessão de caixa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// GetCurrent retorna a sessão aberta de um terminal
// @Summary Consulta a sessão aberta do terminal
// @Tags cashier
// @Produce json
// @Param terminal_id query string true "ID do terminal"
// @Success 200 {object} cashier.Session
// @Failure 404 {object} dto.ErrorResponse
// @Router /cash-sessions/current [get]
func (c *CashierController) GetCurrent(ctx *gin.Context) {
	terminalID := ctx.Query("terminal_id")
	if terminalID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID do terminal não fornecido", ""))
		return
	}

	session, err := c.sessions.FindOpenByTerminal(ctx, terminalID)
	if err != nil {
		if errors.Is(err, cashier.ErrNoOpenSession) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Não há sessão de caixa aberta para este terminal", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao consultar sessão", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// ListMovements lista as movimentações manuais de uma sessão
// @Summary Lista as movimentações de uma sessão
// @Tags cashier
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {array} cashier.Movement
// @Router /cash-sessions/{id}/movements [get]
func (c *CashierController) ListMovements(ctx *gin.Context) {
	movements, err := c.sessions.ListMovements(ctx, ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar movimentações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, movements)
}
