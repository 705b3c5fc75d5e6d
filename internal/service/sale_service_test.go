package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
	"github.com/hugohenrick/erp-pdv/internal/domain/catalog"
	"github.com/hugohenrick/erp-pdv/internal/domain/inventory"
	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
	"github.com/hugohenrick/erp-pdv/internal/domain/sale"
)

// saleFixture monta um ponto de venda completo: organização, terminal com
// contas de destino, produto com saldo, sessão aberta e operador de caixa.
type saleFixture struct {
	svc       *SaleService
	sales     *fakeSaleRepo
	sessions  *fakeSessionRepo
	terminals *fakeTerminalRepo
	products  *fakeProductRepo
	stocks    *fakeStockRepo
	ledger    *fakeLedgerRepo

	operator   *principal.Principal
	terminal   *organization.Terminal
	product    *catalog.Product
	session    *cashier.Session
	categoryID string
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	ctx := context.Background()

	principals := newFakePrincipalRepo()
	sessions := newFakeSessionRepo()
	terminals := newFakeTerminalRepo()
	orgs := newFakeOrgRepo()
	products := newFakeProductRepo()
	stocks := newFakeStockRepo()
	ledgerRepo := newFakeLedgerRepo()
	sales := newFakeSaleRepo()

	org, err := organization.NewOrganization("11222333000181", "Mercado Central LTDA", "Mercado Central",
		organization.Address{City: "São Paulo", State: "SP"}, "simples", organization.Homologation)
	require.NoError(t, err)
	require.NoError(t, orgs.Create(ctx, org))

	place, err := organization.NewFiscalPlace(org.ID, "Matriz")
	require.NoError(t, err)
	require.NoError(t, orgs.CreatePlace(ctx, place))

	warehouse, err := inventory.NewWarehouse(org.ID, "DEP01", "Depósito Loja", "")
	require.NoError(t, err)
	require.NoError(t, stocks.CreateWarehouse(ctx, warehouse))

	cashAcc, err := ledger.NewAccount(org.ID, "Caixa PDV 1", ledger.AccountOperatorCash, 0)
	require.NoError(t, err)
	cardAcc, err := ledger.NewAccount(org.ID, "Cartões", ledger.AccountCardWallet, 0)
	require.NoError(t, err)
	pixAcc, err := ledger.NewAccount(org.ID, "PIX", ledger.AccountPixWallet, 0)
	require.NoError(t, err)
	for _, a := range []*ledger.Account{cashAcc, cardAcc, pixAcc} {
		require.NoError(t, ledgerRepo.CreateAccount(ctx, a))
	}

	terminal, err := organization.NewTerminal(place.ID, "pdv-01", "Caixa 1", warehouse.ID)
	require.NoError(t, err)
	terminal.CashAccountID = cashAcc.ID
	terminal.CardAccountID = cardAcc.ID
	terminal.PixAccountID = pixAcc.ID
	require.NoError(t, terminals.Create(ctx, terminal))

	product, err := catalog.NewProduct("Arroz 5kg", "UN", catalog.ClassGood)
	require.NoError(t, err)
	product.SKU = "000001"
	require.NoError(t, products.CreateTx(ctx, nil, product))
	stocks.setStock(product.ID, warehouse.ID, 10)

	operator, err := principal.NewPrincipal("caixa1", "Operador de Caixa", "senha123", principal.Capabilities{
		Forms: map[string]bool{
			principal.CapOpenCash:          true,
			principal.CapFinalizeFiscal:    true,
			principal.CapFinalizeNonFiscal: true,
		},
		Limits: map[string]float64{principal.LimitMaxDiscountPct: 10},
	})
	require.NoError(t, err)
	require.NoError(t, principals.Create(ctx, operator))

	session, err := cashier.NewSession(terminal.ID, operator.ID, 100)
	require.NoError(t, err)
	require.NoError(t, sessions.CreateTx(ctx, nil, session))

	category := &ledger.Category{ID: "cat-receita", OrganizationID: org.ID, Name: "Vendas", Kind: ledger.KindRevenue}
	require.NoError(t, ledgerRepo.CreateCategory(ctx, category))

	capabilities := NewCapabilityService(principals)
	inventorySvc := NewInventoryService(stocks)

	svc := NewSaleService(&fakeTxManager{}, sales, sessions, terminals, orgs, products,
		ledgerRepo, inventorySvc, capabilities)

	return &saleFixture{
		svc:        svc,
		sales:      sales,
		sessions:   sessions,
		terminals:  terminals,
		products:   products,
		stocks:     stocks,
		ledger:     ledgerRepo,
		operator:   operator,
		terminal:   terminal,
		product:    product,
		session:    session,
		categoryID: category.ID,
	}
}

func (f *saleFixture) cashRequest(qty, unitPrice, tendered float64) FinalizeSaleRequest {
	return FinalizeSaleRequest{
		OperatorID:   f.operator.ID,
		TerminalID:   f.terminal.ID,
		DocumentKind: sale.DocumentFiscal,
		Lines: []SaleLine{
			{ProductID: f.product.ID, Quantity: qty, UnitPrice: unitPrice},
		},
		Tenders: []SaleTender{
			{Tender: organization.TenderCash, Amount: tendered},
		},
	}
}

func TestFinalizeCashSaleWithChange(t *testing.T) {
	f := newSaleFixture(t)

	result, err := f.svc.Finalize(context.Background(), f.cashRequest(2, 10, 25))
	require.NoError(t, err)

	s := result.Sale
	assert.Equal(t, 20.0, s.Subtotal)
	assert.Equal(t, 20.0, s.FinalTotal)
	assert.Equal(t, 25.0, s.TenderedTotal)
	assert.Equal(t, 5.0, s.Change)
	assert.Equal(t, sale.StatusFinalized, s.Status)

	// Numeração consumida do contador do terminal
	require.NotNil(t, s.DocumentNumber)
	assert.Equal(t, int64(1), *s.DocumentNumber)
	assert.Equal(t, int64(2), f.terminals.byID[f.terminal.ID].NextDocumentNumber)

	// Estoque baixado
	stock, err := f.stocks.FindStock(context.Background(), f.product.ID, f.terminal.DefaultWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, stock.Quantity)

	// Na conta de dinheiro entra só o que fica na gaveta (25 − 5 de troco)
	cashAcc, err := f.ledger.FindAccountByID(context.Background(), f.terminal.CashAccountID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cashAcc.RunningBalance)

	movements, err := f.ledger.ListMovementsBySaleTx(context.Background(), nil, s.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, ledger.MovementIn, movements[0].Kind)
	assert.Equal(t, 20.0, movements[0].Amount)
	assert.Equal(t, f.session.ID, *movements[0].SessionID)
}

func TestFinalizeSplitTender(t *testing.T) {
	f := newSaleFixture(t)

	req := f.cashRequest(3, 10, 10)
	req.Tenders = append(req.Tenders, SaleTender{Tender: organization.TenderPix, Amount: 20})

	result, err := f.svc.Finalize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Sale.Change)

	pixAcc, err := f.ledger.FindAccountByID(context.Background(), f.terminal.PixAccountID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, pixAcc.RunningBalance)
}

func TestFinalizeRejectsInsufficientTender(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.Finalize(context.Background(), f.cashRequest(2, 10, 15))
	assert.ErrorIs(t, err, sale.ErrInsufficientTender)
}

func TestFinalizeRejectsChangeWithoutCash(t *testing.T) {
	f := newSaleFixture(t)

	req := f.cashRequest(2, 10, 0)
	req.Tenders = []SaleTender{{Tender: organization.TenderCard, Amount: 30}}

	_, err := f.svc.Finalize(context.Background(), req)
	assert.ErrorIs(t, err, sale.ErrChangeWithoutCash)
}

func TestFinalizeRejectsDiscountOverLimit(t *testing.T) {
	f := newSaleFixture(t)

	// Limite do operador é 10%; desconto global de 20% sobre 20,00
	req := f.cashRequest(2, 10, 16)
	req.GlobalDiscount = 4

	_, err := f.svc.Finalize(context.Background(), req)
	assert.ErrorIs(t, err, sale.ErrDiscountOverLimit)
}

func TestFinalizeAllowsDiscountWithinLimit(t *testing.T) {
	f := newSaleFixture(t)

	req := f.cashRequest(2, 10, 18)
	req.GlobalDiscount = 2 // exatamente 10%

	result, err := f.svc.Finalize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 18.0, result.Sale.FinalTotal)
}

func TestFinalizeRequiresOpenSession(t *testing.T) {
	f := newSaleFixture(t)
	f.session.Status = cashier.StatusClosed

	_, err := f.svc.Finalize(context.Background(), f.cashRequest(1, 10, 10))
	assert.ErrorIs(t, err, cashier.ErrNoOpenSession)
}

func TestFinalizeServiceSkipsStock(t *testing.T) {
	f := newSaleFixture(t)

	svcProduct, err := catalog.NewProduct("Entrega em domicílio", "UN", catalog.ClassService)
	require.NoError(t, err)
	require.NoError(t, f.products.CreateTx(context.Background(), nil, svcProduct))

	req := f.cashRequest(1, 10, 25)
	req.Lines = append(req.Lines, SaleLine{ProductID: svcProduct.ID, Quantity: 1, UnitPrice: 15})

	_, err = f.svc.Finalize(context.Background(), req)
	require.NoError(t, err)

	stock, err := f.stocks.FindStock(context.Background(), f.product.ID, f.terminal.DefaultWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stock.Quantity)
}

func TestFinalizeCardInstallmentsCreatesReceivable(t *testing.T) {
	f := newSaleFixture(t)

	req := FinalizeSaleRequest{
		OperatorID:   f.operator.ID,
		TerminalID:   f.terminal.ID,
		DocumentKind: sale.DocumentFiscal,
		Lines: []SaleLine{
			{ProductID: f.product.ID, Quantity: 1, UnitPrice: 100},
		},
		Tenders: []SaleTender{
			{Tender: organization.TenderCard, Amount: 100, Installments: 2},
		},
		ReceivableCategoryID: f.categoryID,
	}

	result, err := f.svc.Finalize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Installments, 2)

	first, second := result.Installments[0], result.Installments[1]
	assert.Equal(t, 50.0, first.ScheduledAmount)
	assert.Equal(t, 50.0, second.ScheduledAmount)
	assert.Equal(t, ledger.StatusPending, first.Status)
	assert.Equal(t, result.Sale.ID, *first.OriginSaleID)

	soldAt := result.Sale.SoldAt
	assert.Equal(t, soldAt.AddDate(0, 0, 30).Day(), first.DueDate.Day())
	assert.Equal(t, soldAt.AddDate(0, 0, 60).Day(), second.DueDate.Day())

	title, err := f.ledger.FindTitleByID(context.Background(), first.TitleID)
	require.NoError(t, err)
	assert.Equal(t, ledger.DirectionReceivable, title.Direction)
	assert.Equal(t, 100.0, title.Total)
}

func TestFinalizeReceivableResidueOnFirstInstallment(t *testing.T) {
	f := newSaleFixture(t)

	req := FinalizeSaleRequest{
		OperatorID:   f.operator.ID,
		TerminalID:   f.terminal.ID,
		DocumentKind: sale.DocumentFiscal,
		Lines: []SaleLine{
			{ProductID: f.product.ID, Quantity: 1, UnitPrice: 100},
		},
		Tenders: []SaleTender{
			{Tender: organization.TenderCard, Amount: 100, Installments: 3},
		},
		ReceivableCategoryID: f.categoryID,
	}

	result, err := f.svc.Finalize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Installments, 3)

	assert.Equal(t, 33.34, result.Installments[0].ScheduledAmount)
	assert.Equal(t, 33.33, result.Installments[1].ScheduledAmount)
	assert.Equal(t, 33.33, result.Installments[2].ScheduledAmount)
}

func TestCancelRestoresStockAndReversesMovements(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	result, err := f.svc.Finalize(ctx, f.cashRequest(2, 10, 20))
	require.NoError(t, err)
	saleID := result.Sale.ID

	reason, err := sale.NewCancellationReason("01", "Desistência do cliente")
	require.NoError(t, err)
	require.NoError(t, f.sales.CreateCancellationReason(ctx, reason))

	require.NoError(t, f.svc.Cancel(ctx, saleID, reason.ID, f.operator.ID))

	cancelled, err := f.sales.FindByID(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusCancelled, cancelled.Status)
	assert.Equal(t, reason.ID, *cancelled.CancellationReasonID)

	// Estoque devolvido
	stock, err := f.stocks.FindStock(ctx, f.product.ID, f.terminal.DefaultWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stock.Quantity)

	// Saldo da conta de dinheiro zerado pelo estorno
	cashAcc, err := f.ledger.FindAccountByID(ctx, f.terminal.CashAccountID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cashAcc.RunningBalance)

	movements, err := f.ledger.ListMovementsBySaleTx(ctx, nil, saleID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, ledger.MovementOut, movements[1].Kind)
	assert.Equal(t, movements[0].ID, *movements[1].ReversalOfID)

	// Segundo cancelamento é rejeitado
	err = f.svc.Cancel(ctx, saleID, reason.ID, f.operator.ID)
	assert.ErrorIs(t, err, sale.ErrAlreadyCancelled)
}

func TestCancelRequiresActiveReason(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	result, err := f.svc.Finalize(ctx, f.cashRequest(1, 10, 10))
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, result.Sale.ID, "", f.operator.ID)
	assert.ErrorIs(t, err, sale.ErrReasonRequired)

	inactive, err := sale.NewCancellationReason("99", "Motivo desativado")
	require.NoError(t, err)
	inactive.Active = false
	require.NoError(t, f.sales.CreateCancellationReason(ctx, inactive))

	err = f.svc.Cancel(ctx, result.Sale.ID, inactive.ID, f.operator.ID)
	assert.ErrorIs(t, err, sale.ErrReasonNotFound)
}

func TestFinalizePresaleConsumesWithoutReposting(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	presaleReq := f.cashRequest(2, 10, 20)
	presaleReq.DocumentKind = sale.DocumentNonFiscal
	presaleResult, err := f.svc.Finalize(ctx, presaleReq)
	require.NoError(t, err)
	presaleID := presaleResult.Sale.ID

	stockAfterPresale, err := f.stocks.FindStock(ctx, f.product.ID, f.terminal.DefaultWarehouseID)
	require.NoError(t, err)
	require.Equal(t, 8.0, stockAfterPresale.Quantity)

	fiscalReq := FinalizeSaleRequest{
		OperatorID:      f.operator.ID,
		TerminalID:      f.terminal.ID,
		DocumentKind:    sale.DocumentFiscal,
		OriginPresaleID: &presaleID,
	}

	result, err := f.svc.Finalize(ctx, fiscalReq)
	require.NoError(t, err)

	// Documento fiscal numerado, com os itens e totais herdados da pré-venda
	require.NotNil(t, result.Sale.DocumentNumber)
	assert.Equal(t, presaleID, *result.Sale.OriginPresaleID)
	assert.Equal(t, 20.0, result.Sale.FinalTotal)
	assert.Len(t, result.Sale.Items, 1)

	// Pré-venda marcada como consumida
	presale, err := f.sales.FindByID(ctx, presaleID)
	require.NoError(t, err)
	assert.True(t, presale.Fiscalized)

	// Sem nova baixa de estoque e sem novo lançamento de conta
	stock, err := f.stocks.FindStock(ctx, f.product.ID, f.terminal.DefaultWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, stock.Quantity)

	movements, err := f.ledger.ListMovementsBySaleTx(ctx, nil, result.Sale.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)

	// Consumir de novo é rejeitado
	_, err = f.svc.Finalize(ctx, fiscalReq)
	assert.ErrorIs(t, err, sale.ErrPresaleAlreadyUsed)
}

func TestCancelFiscalFromPresaleReversesPresaleLedger(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	presaleReq := f.cashRequest(2, 10, 20)
	presaleReq.DocumentKind = sale.DocumentNonFiscal
	presaleResult, err := f.svc.Finalize(ctx, presaleReq)
	require.NoError(t, err)
	presaleID := presaleResult.Sale.ID

	fiscalResult, err := f.svc.Finalize(ctx, FinalizeSaleRequest{
		OperatorID:      f.operator.ID,
		TerminalID:      f.terminal.ID,
		DocumentKind:    sale.DocumentFiscal,
		OriginPresaleID: &presaleID,
	})
	require.NoError(t, err)

	reason, err := sale.NewCancellationReason("01", "Desistência do cliente")
	require.NoError(t, err)
	require.NoError(t, f.sales.CreateCancellationReason(ctx, reason))

	// Pré-venda consumida só cai pelo documento fiscal
	err = f.svc.Cancel(ctx, presaleID, reason.ID, f.operator.ID)
	assert.ErrorIs(t, err, sale.ErrPresaleFiscalized)

	require.NoError(t, f.svc.Cancel(ctx, fiscalResult.Sale.ID, reason.ID, f.operator.ID))

	// O lançamento de caixa aconteceu na pré-venda e é lá que se estorna
	cashAcc, err := f.ledger.FindAccountByID(ctx, f.terminal.CashAccountID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cashAcc.RunningBalance)

	movements, err := f.ledger.ListMovementsBySaleTx(ctx, nil, presaleID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, movements[0].ID, *movements[1].ReversalOfID)

	// Estoque devolvido uma única vez
	stock, err := f.stocks.FindStock(ctx, f.product.ID, f.terminal.DefaultWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stock.Quantity)

	// A pré-venda cai junto; cancelá-la de novo não devolve estoque outra vez
	presale, err := f.sales.FindByID(ctx, presaleID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusCancelled, presale.Status)

	err = f.svc.Cancel(ctx, presaleID, reason.ID, f.operator.ID)
	assert.ErrorIs(t, err, sale.ErrAlreadyCancelled)

	stock, err = f.stocks.FindStock(ctx, f.product.ID, f.terminal.DefaultWarehouseID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stock.Quantity)
}

func TestFinalizePresaleMustBeFiscal(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	presaleReq := f.cashRequest(1, 10, 10)
	presaleReq.DocumentKind = sale.DocumentNonFiscal
	presaleResult, err := f.svc.Finalize(ctx, presaleReq)
	require.NoError(t, err)

	req := FinalizeSaleRequest{
		OperatorID:      f.operator.ID,
		TerminalID:      f.terminal.ID,
		DocumentKind:    sale.DocumentNonFiscal,
		OriginPresaleID: &presaleResult.Sale.ID,
	}
	_, err = f.svc.Finalize(ctx, req)
	assert.ErrorIs(t, err, sale.ErrPresaleMustBeNonFiscal)
}

func TestFinalizeNonFiscalHasNoDocumentNumber(t *testing.T) {
	f := newSaleFixture(t)

	req := f.cashRequest(1, 10, 10)
	req.DocumentKind = sale.DocumentNonFiscal

	result, err := f.svc.Finalize(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, result.Sale.DocumentNumber)
	assert.Equal(t, int64(1), f.terminals.byID[f.terminal.ID].NextDocumentNumber)
}

func TestFinalizeRequiresCapabilityForKind(t *testing.T) {
	f := newSaleFixture(t)
	f.operator.Capabilities.Forms[principal.CapFinalizeFiscal] = false

	_, err := f.svc.Finalize(context.Background(), f.cashRequest(1, 10, 10))
	assert.Error(t, err)
}

func TestFinalizeLineTotalsCarryResidue(t *testing.T) {
	f := newSaleFixture(t)

	// 3 × 0,333 = 0,999 por linha; o resíduo do arredondamento fica na primeira
	req := FinalizeSaleRequest{
		OperatorID:   f.operator.ID,
		TerminalID:   f.terminal.ID,
		DocumentKind: sale.DocumentFiscal,
		Lines: []SaleLine{
			{ProductID: f.product.ID, Quantity: 3, UnitPrice: 0.333},
			{ProductID: f.product.ID, Quantity: 3, UnitPrice: 0.333},
		},
		Tenders: []SaleTender{{Tender: organization.TenderCash, Amount: 2}},
	}

	result, err := f.svc.Finalize(context.Background(), req)
	require.NoError(t, err)

	sum := 0.0
	for _, item := range result.Sale.Items {
		sum += item.LineTotal
	}
	assert.InDelta(t, result.Sale.Subtotal-result.Sale.ItemDiscountTotal, sum, 0.001)
}
