package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
	"github.com/hugohenrick/erp-pdv/internal/domain/report"
	"github.com/hugohenrick/erp-pdv/internal/service"
)

// ReportController expõe os relatórios gerenciais e financeiros
type ReportController struct {
	reports *service.ReportService
}

// NewReportController cria uma nova instância de ReportController
func NewReportController(reports *service.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

func parseDateRange(ctx *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", ctx.Query("from"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Data inicial inválida", err.Error()))
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", ctx.Query("to"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Data final inválida", err.Error()))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func requireOrganization(ctx *gin.Context) (string, bool) {
	organizationID := ctx.Query("organization_id")
	if organizationID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da organização não fornecido", ""))
		return "", false
	}
	return organizationID, true
}

// Dashboard retorna os indicadores do painel
// @Summary Indicadores do painel
// @Description Saldo consolidado, vencidos, vencendo hoje e recebíveis do mês
// @Tags reports
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Success 200 {object} report.DashboardKPIs
// @Router /reports/dashboard [get]
func (c *ReportController) Dashboard(ctx *gin.Context) {
	organizationID, ok := requireOrganization(ctx)
	if !ok {
		return
	}

	kpis, err := c.reports.DashboardKPIs(ctx, organizationID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar indicadores", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, kpis)
}

// CashFlow retorna a projeção de fluxo de caixa
// @Summary Projeção de fluxo de caixa
// @Description Entradas e saídas previstas por dia de vencimento
// @Tags reports
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Param days query int false "Horizonte em dias (padrão 30)"
// @Success 200 {array} report.CashFlowBucket
// @Router /reports/cash-flow [get]
func (c *ReportController) CashFlow(ctx *gin.Context) {
	organizationID, ok := requireOrganization(ctx)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	buckets, err := c.reports.CashFlow(ctx, organizationID, days)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar fluxo de caixa", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, buckets)
}

// TopExpenses retorna as maiores despesas pagas do mês por categoria
// @Summary Maiores despesas do mês
// @Tags reports
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Param month query string true "Mês de referência (AAAA-MM)"
// @Param limit query int false "Quantidade de categorias (padrão 5)"
// @Success 200 {array} report.CategoryExpense
// @Router /reports/top-expenses [get]
func (c *ReportController) TopExpenses(ctx *gin.Context) {
	organizationID, ok := requireOrganization(ctx)
	if !ok {
		return
	}
	month, err := time.Parse("2006-01", ctx.Query("month"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Mês inválido", err.Error()))
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))

	expenses, err := c.reports.TopExpensesByCategory(ctx, organizationID, month, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar despesas por categoria", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, expenses)
}

// AccountStatement retorna o extrato de uma conta no período
// @Summary Extrato de conta
// @Description Saldo de abertura, lançamentos do período e saldo de fechamento
// @Tags reports
// @Produce json
// @Param account_id query string true "ID da conta"
// @Param from query string true "Data inicial (AAAA-MM-DD)"
// @Param to query string true "Data final (AAAA-MM-DD)"
// @Success 200 {object} report.Statement
// @Failure 404 {object} dto.ErrorResponse
// @Router /reports/statement [get]
func (c *ReportController) AccountStatement(ctx *gin.Context) {
	accountID := ctx.Query("account_id")
	if accountID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da conta não fornecido", ""))
		return
	}
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	statement, err := c.reports.AccountStatement(ctx, accountID, from, to)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Conta não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar extrato", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, statement)
}

// DRE retorna o demonstrativo de resultado por regime de caixa
// @Summary DRE por regime de caixa
// @Description Receitas e despesas pagas no período agrupadas por categoria
// @Tags reports
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Param from query string true "Data inicial (AAAA-MM-DD)"
// @Param to query string true "Data final (AAAA-MM-DD)"
// @Success 200 {object} report.DRE
// @Router /reports/dre [get]
func (c *ReportController) DRE(ctx *gin.Context) {
	organizationID, ok := requireOrganization(ctx)
	if !ok {
		return
	}
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	dre, err := c.reports.DRECashBasis(ctx, organizationID, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar DRE", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dre)
}

// SalesBySession retorna o resumo de vendas por sessão de caixa
// @Summary Vendas por sessão de caixa
// @Tags reports
// @Produce json
// @Param from query string true "Data inicial (AAAA-MM-DD)"
// @Param to query string true "Data final (AAAA-MM-DD)"
// @Success 200 {array} report.SessionSummary
// @Router /reports/sales-by-session [get]
func (c *ReportController) SalesBySession(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	summaries, err := c.reports.SalesBySession(ctx, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar vendas por sessão", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, summaries)
}

// SalesByProduct retorna o ranking de vendas por produto
// @Summary Vendas por produto
// @Tags reports
// @Produce json
// @Param organization_id query string false "ID da organização"
// @Param terminal_id query string false "ID do terminal"
// @Param code_prefix query string false "Prefixo do SKU"
// @Param from query string true "Data inicial (AAAA-MM-DD)"
// @Param to query string true "Data final (AAAA-MM-DD)"
// @Success 200 {array} report.ProductSaleLine
// @Router /reports/sales-by-product [get]
func (c *ReportController) SalesByProduct(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	lines, err := c.reports.SalesByProduct(ctx, report.ProductSalesFilter{
		OrganizationID: ctx.Query("organization_id"),
		TerminalID:     ctx.Query("terminal_id"),
		CodePrefix:     ctx.Query("code_prefix"),
		From:           from,
		To:             to,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar vendas por produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, lines)
}

// PendingNonFiscal retorna as vendas não fiscais ainda não fiscalizadas
// @Summary Vendas não fiscais pendentes
// @Description Vendas não fiscais finalizadas que ainda não viraram documento fiscal
// @Tags reports
// @Produce json
// @Param from query string true "Data inicial (AAAA-MM-DD)"
// @Param to query string true "Data final (AAAA-MM-DD)"
// @Success 200 {array} report.PendingNonFiscalSale
// @Router /reports/pending-non-fiscal [get]
func (c *ReportController) PendingNonFiscal(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	sales, err := c.reports.PendingNonFiscalSales(ctx, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar vendas pendentes", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, sales)
}
