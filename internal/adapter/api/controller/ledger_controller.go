package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
	"github.com/hugohenrick/erp-pdv/internal/service"
)

// LedgerController gerencia o razão financeiro: contas, categorias, títulos,
// parcelas e movimentações.
type LedgerController struct {
	ledgers    *service.LedgerService
	repository ledger.Repository
}

// NewLedgerController cria uma nova instância de LedgerController
func NewLedgerController(ledgers *service.LedgerService, repo ledger.Repository) *LedgerController {
	return &LedgerController{ledgers: ledgers, repository: repo}
}

// CreateAccount cadastra uma conta financeira
// @Summary Cadastra uma conta financeira
// @Tags ledger
// @Accept json
// @Produce json
// @Param account body dto.AccountRequest true "Dados da conta"
// @Success 201 {object} ledger.Account
// @Failure 400 {object} dto.ErrorResponse
// @Router /ledger/accounts [post]
func (c *LedgerController) CreateAccount(ctx *gin.Context) {
	var request dto.AccountRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	account, err := c.ledgers.CreateAccount(ctx, request.OrganizationID, request.Name, ledger.AccountKind(request.Kind), request.OpeningBalance)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar conta", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, account)
}

// GetAccount busca uma conta pelo ID
// @Summary Busca uma conta pelo ID
// @Tags ledger
// @Produce json
// @Param id path string true "ID da conta"
// @Success 200 {object} ledger.Account
// @Failure 404 {object} dto.ErrorResponse
// @Router /ledger/accounts/{id} [get]
func (c *LedgerController) GetAccount(ctx *gin.Context) {
	account, err := c.repository.FindAccountByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conta não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar conta", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, account)
}

// ListAccounts lista as contas de uma organização
// @Summary Lista as contas financeiras
// @Tags ledger
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Success 200 {array} ledger.Account
// @Router /ledger/accounts [get]
func (c *LedgerController) ListAccounts(ctx *gin.Context) {
	organizationID := ctx.Query("organization_id")
	if organizationID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da organização não fornecido", ""))
		return
	}

	accounts, err := c.repository.ListAccounts(ctx, organizationID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar contas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, accounts)
}

// CreateCategory cadastra uma categoria do plano financeiro
// @Summary Cadastra uma categoria
// @Description Categorias filhas herdam obrigatoriamente o tipo da categoria pai
// @Tags ledger
// @Accept json
// @Produce json
// @Param category body dto.CategoryRequest true "Dados da categoria"
// @Success 201 {object} ledger.Category
// @Failure 400 {object} dto.ErrorResponse
// @Router /ledger/categories [post]
func (c *LedgerController) CreateCategory(ctx *gin.Context) {
	var request dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	now := time.Now()
	category := &ledger.Category{
		ID:             uuid.NewString(),
		OrganizationID: request.OrganizationID,
		ParentID:       request.ParentID,
		Name:           request.Name,
		Kind:           ledger.CategoryKind(request.Kind),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.ledgers.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, ledger.ErrCategoryNotFound) || errors.Is(err, ledger.ErrCategoryRootKind) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Categoria inválida", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar categoria", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

// ListCategories lista as categorias de uma organização
// @Summary Lista as categorias
// @Tags ledger
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Success 200 {array} ledger.Category
// @Router /ledger/categories [get]
func (c *LedgerController) ListCategories(ctx *gin.Context) {
	organizationID := ctx.Query("organization_id")
	if organizationID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da organização não fornecido", ""))
		return
	}

	categories, err := c.repository.ListCategories(ctx, organizationID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar categorias", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// CreateCostCenter cadastra um centro de custo
// @Summary Cadastra um centro de custo
// @Tags ledger
// @Accept json
// @Produce json
// @Param costCenter body dto.CostCenterRequest true "Dados do centro de custo"
// @Success 201 {object} ledger.CostCenter
// @Failure 400 {object} dto.ErrorResponse
// @Router /ledger/cost-centers [post]
func (c *LedgerController) CreateCostCenter(ctx *gin.Context) {
	var request dto.CostCenterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	now := time.Now()
	costCenter := &ledger.CostCenter{
		ID:             uuid.NewString(),
		OrganizationID: request.OrganizationID,
		Name:           request.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.repository.CreateCostCenter(ctx, costCenter); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar centro de custo", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, costCenter)
}

// ListCostCenters lista os centros de custo de uma organização
// @Summary Lista os centros de custo
// @Tags ledger
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Success 200 {array} ledger.CostCenter
// @Router /ledger/cost-centers [get]
func (c *LedgerController) ListCostCenters(ctx *gin.Context) {
	organizationID := ctx.Query("organization_id")
	if organizationID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da organização não fornecido", ""))
		return
	}

	costCenters, err := c.repository.ListCostCenters(ctx, organizationID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar centros de custo", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, costCenters)
}

// CreateTitle cria um título com seu plano de parcelamento
// @Summary Cria um título
// @Description Cria o título e as parcelas em uma única transação
// @Tags ledger
// @Accept json
// @Produce json
// @Param title body service.CreateTitleRequest true "Dados do título"
// @Success 201 {object} ledger.Title
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /ledger/titles [post]
func (c *LedgerController) CreateTitle(ctx *gin.Context) {
	var request service.CreateTitleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	title, err := c.ledgers.CreateTitle(ctx, request)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrCategoryNotFound):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Categoria não encontrada", ""))
		case errors.Is(err, ledger.ErrCategoryKindMismatch), errors.Is(err, ledger.ErrInstallmentSumMismatch):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Título rejeitado", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar título", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusCreated, title)
}

// GetTitle busca um título pelo ID com suas parcelas
// @Summary Busca um título pelo ID
// @Tags ledger
// @Produce json
// @Param id path string true "ID do título"
// @Success 200 {object} ledger.Title
// @Failure 404 {object} dto.ErrorResponse
// @Router /ledger/titles/{id} [get]
func (c *LedgerController) GetTitle(ctx *gin.Context) {
	title, err := c.repository.FindTitleByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrTitleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Título não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar título", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, title)
}

// ListInstallmentsByDue lista parcelas por direção e faixa de vencimento
// @Summary Lista parcelas por vencimento
// @Tags ledger
// @Produce json
// @Param direction query string true "payable ou receivable"
// @Param from query string true "Data inicial (AAAA-MM-DD)"
// @Param to query string true "Data final (AAAA-MM-DD)"
// @Success 200 {array} ledger.Installment
// @Failure 400 {object} dto.ErrorResponse
// @Router /ledger/installments [get]
func (c *LedgerController) ListInstallmentsByDue(ctx *gin.Context) {
	from, err := time.Parse("2006-01-02", ctx.Query("from"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Data inicial inválida", err.Error()))
		return
	}
	to, err := time.Parse("2006-01-02", ctx.Query("to"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Data final inválida", err.Error()))
		return
	}

	installments, err := c.repository.ListInstallmentsByDue(ctx, ledger.Direction(ctx.Query("direction")), from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar parcelas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, installments)
}

// Settle baixa uma parcela
// @Summary Baixa uma parcela
// @Description Registra o pagamento, movimenta a conta e, na baixa parcial, desdobra o saldo
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path string true "ID da parcela"
// @Param settle body service.SettleRequest true "Dados da baixa"
// @Success 200 {object} ledger.Installment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /ledger/installments/{id}/settle [post]
func (c *LedgerController) Settle(ctx *gin.Context) {
	var request service.SettleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	installment, err := c.ledgers.Settle(ctx, ctx.Param("id"), request)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInstallmentNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Parcela não encontrada", ""))
		case errors.Is(err, ledger.ErrAccountNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conta não encontrada", ""))
		case errors.Is(err, ledger.ErrAlreadyPaid):
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Parcela já está quitada", ""))
		case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrPartialBelowRemainder):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Baixa rejeitada", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao baixar parcela", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, installment)
}

// Reverse estorna a última baixa de uma parcela
// @Summary Estorna a última baixa
// @Description Lança a movimentação inversa e reabre a parcela
// @Tags ledger
// @Produce json
// @Param id path string true "ID da parcela"
// @Success 200 {object} ledger.Installment
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /ledger/installments/{id}/reverse [post]
func (c *LedgerController) Reverse(ctx *gin.Context) {
	installment, err := c.ledgers.ReverseLast(ctx, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInstallmentNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Parcela não encontrada", ""))
		case errors.Is(err, ledger.ErrNothingToReverse):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Parcela não possui movimentação para estornar", ""))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao estornar parcela", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, installment)
}

// UpdateInstallment altera valor e vencimento de uma parcela em aberto
// @Summary Altera uma parcela
// @Description Parcelas com pagamento não podem ser alteradas
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path string true "ID da parcela"
// @Param installment body dto.UpdateInstallmentRequest true "Novos valor e vencimento"
// @Success 200 {object} ledger.Installment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /ledger/installments/{id} [put]
func (c *LedgerController) UpdateInstallment(ctx *gin.Context) {
	var request dto.UpdateInstallmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	dueDate, err := time.Parse("2006-01-02", request.DueDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Data de vencimento inválida", err.Error()))
		return
	}

	installment, err := c.ledgers.UpdateInstallment(ctx, ctx.Param("id"), request.Amount, dueDate)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInstallmentNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Parcela não encontrada", ""))
		case errors.Is(err, ledger.ErrEditForbidden):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Parcela com pagamento não pode ser alterada", ""))
		case errors.Is(err, ledger.ErrInvalidAmount):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Valor inválido", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao alterar parcela", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, installment)
}

// DeleteInstallment exclui uma parcela em aberto
// @Summary Exclui uma parcela
// @Description Parcelas com pagamento não podem ser excluídas; o total do título é reduzido
// @Tags ledger
// @Produce json
// @Param id path string true "ID da parcela"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /ledger/installments/{id} [delete]
func (c *LedgerController) DeleteInstallment(ctx *gin.Context) {
	err := c.ledgers.DeleteInstallment(ctx, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInstallmentNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Parcela não encontrada", ""))
		case errors.Is(err, ledger.ErrDeleteForbidden):
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Parcela com pagamento não pode ser excluída", ""))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao excluir parcela", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Parcela excluída com sucesso", nil))
}

// RecordMovement registra uma movimentação avulsa de conta
// @Summary Registra uma movimentação avulsa
// @Tags ledger
// @Accept json
// @Produce json
// @Param movement body dto.AccountMovementRequest true "Dados da movimentação"
// @Success 201 {object} ledger.Movement
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /ledger/movements [post]
func (c *LedgerController) RecordMovement(ctx *gin.Context) {
	var request dto.AccountMovementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	movement, err := c.ledgers.RecordMovement(ctx, request.AccountID, ledger.MovementKind(request.Kind), request.Amount, request.Description)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conta não encontrada", ""))
		case errors.Is(err, ledger.ErrInvalidAmount):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Valor inválido", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao registrar movimentação", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusCreated, movement)
}

// Transfer transfere valor entre contas
// @Summary Transfere valor entre contas
// @Description Lança a saída na origem e a entrada no destino na mesma transação
// @Tags ledger
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Dados da transferência"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /ledger/transfers [post]
func (c *LedgerController) Transfer(ctx *gin.Context) {
	var request dto.TransferRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	err := c.ledgers.Transfer(ctx, request.FromAccountID, request.ToAccountID, request.Amount, request.Description)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conta não encontrada", ""))
		case errors.Is(err, ledger.ErrInvalidAmount):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Valor inválido", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao transferir", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Transferência realizada com sucesso", nil))
}

// Reconcile marca ou desmarca a conferência de uma movimentação
// @Summary Marca a conferência de uma movimentação
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path string true "ID da movimentação"
// @Param reconcile body dto.ReconcileRequest true "Situação da conferência"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /ledger/movements/{id}/reconcile [patch]
func (c *LedgerController) Reconcile(ctx *gin.Context) {
	var request dto.ReconcileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	if err := c.ledgers.SetReconciled(ctx, ctx.Param("id"), request.Reconciled); err != nil {
		if errors.Is(err, ledger.ErrMovementNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Movimentação não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao marcar conferência", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Conferência atualizada com sucesso", nil))
}
