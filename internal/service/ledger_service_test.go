package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
)

type ledgerFixture struct {
	svc      *LedgerService
	repo     *fakeLedgerRepo
	account  *ledger.Account
	revenue  *ledger.Category
	expense  *ledger.Category
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()

	repo := newFakeLedgerRepo()
	svc := NewLedgerService(&fakeTxManager{}, repo)

	account, err := ledger.NewAccount("org-1", "Banco Principal", ledger.AccountBank, 500)
	require.NoError(t, err)
	require.NoError(t, repo.CreateAccount(ctx, account))

	revenue := &ledger.Category{ID: "cat-rec", OrganizationID: "org-1", Name: "Vendas", Kind: ledger.KindRevenue}
	expense := &ledger.Category{ID: "cat-desp", OrganizationID: "org-1", Name: "Fornecedores", Kind: ledger.KindExpense}
	require.NoError(t, repo.CreateCategory(ctx, revenue))
	require.NoError(t, repo.CreateCategory(ctx, expense))

	return &ledgerFixture{svc: svc, repo: repo, account: account, revenue: revenue, expense: expense}
}

func (f *ledgerFixture) receivable(t *testing.T, total float64, plan []ledger.PlanEntry) *ledger.Title {
	t.Helper()
	title, err := f.svc.CreateTitle(context.Background(), CreateTitleRequest{
		OrganizationID: "org-1",
		Direction:      ledger.DirectionReceivable,
		CategoryID:     f.revenue.ID,
		IssueDate:      time.Now(),
		CompetenceDate: time.Now(),
		Description:    "Título de teste",
		Total:          total,
		Plan:           plan,
	})
	require.NoError(t, err)
	return title
}

func singlePlan(amount float64) []ledger.PlanEntry {
	return []ledger.PlanEntry{{Amount: amount, DueDate: time.Now().AddDate(0, 0, 30), Description: "Parcela 1/1"}}
}

func TestCreateTitleValidatesPlanSum(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.CreateTitle(context.Background(), CreateTitleRequest{
		OrganizationID: "org-1",
		Direction:      ledger.DirectionReceivable,
		CategoryID:     f.revenue.ID,
		Total:          100,
		Plan: []ledger.PlanEntry{
			{Amount: 50, DueDate: time.Now()},
			{Amount: 40, DueDate: time.Now()},
		},
	})
	assert.ErrorIs(t, err, ledger.ErrInstallmentSumMismatch)
}

func TestCreateTitlePlanToleratesOneCent(t *testing.T) {
	f := newLedgerFixture(t)

	title := f.receivable(t, 100, []ledger.PlanEntry{
		{Amount: 33.34, DueDate: time.Now()},
		{Amount: 33.33, DueDate: time.Now()},
		{Amount: 33.33, DueDate: time.Now()},
	})
	assert.Len(t, title.Installments, 3)
}

func TestCreateTitleValidatesCategoryKind(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.CreateTitle(context.Background(), CreateTitleRequest{
		OrganizationID: "org-1",
		Direction:      ledger.DirectionReceivable,
		CategoryID:     f.expense.ID,
		Total:          100,
		Plan:           singlePlan(100),
	})
	assert.ErrorIs(t, err, ledger.ErrCategoryKindMismatch)
}

func TestCreateCategoryInheritsRootKind(t *testing.T) {
	f := newLedgerFixture(t)

	child := &ledger.Category{ID: "cat-filha", OrganizationID: "org-1", ParentID: &f.revenue.ID, Name: "Vendas PDV", Kind: ledger.KindExpense}
	err := f.svc.CreateCategory(context.Background(), child)
	assert.ErrorIs(t, err, ledger.ErrCategoryRootKind)

	child.Kind = ledger.KindRevenue
	assert.NoError(t, f.svc.CreateCategory(context.Background(), child))
}

func TestSettleAndReverseRoundTrip(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	title := f.receivable(t, 100, singlePlan(100))
	installmentID := title.Installments[0].ID

	settled, err := f.svc.Settle(ctx, installmentID, SettleRequest{
		AccountID: f.account.ID,
		Amount:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, settled.Status)
	assert.NotNil(t, settled.PaidDate)
	assert.Equal(t, 600.0, f.account.RunningBalance)

	// Baixar de novo é rejeitado
	_, err = f.svc.Settle(ctx, installmentID, SettleRequest{AccountID: f.account.ID, Amount: 10})
	assert.ErrorIs(t, err, ledger.ErrAlreadyPaid)

	reversed, err := f.svc.ReverseLast(ctx, installmentID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, reversed.Status)
	assert.Equal(t, 0.0, reversed.PaidAmount)
	assert.Nil(t, reversed.PaidDate)
	assert.Equal(t, 500.0, f.account.RunningBalance)

	// Sem movimentação aberta, não há o que estornar
	_, err = f.svc.ReverseLast(ctx, installmentID)
	assert.ErrorIs(t, err, ledger.ErrNothingToReverse)
}

func TestSettlePayableMovesMoneyOut(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	title, err := f.svc.CreateTitle(ctx, CreateTitleRequest{
		OrganizationID: "org-1",
		Direction:      ledger.DirectionPayable,
		CategoryID:     f.expense.ID,
		Total:          200,
		Plan:           singlePlan(200),
	})
	require.NoError(t, err)

	_, err = f.svc.Settle(ctx, title.Installments[0].ID, SettleRequest{
		AccountID: f.account.ID,
		Amount:    200,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, f.account.RunningBalance)
}

func TestSettlePartialRequiresFlag(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	title := f.receivable(t, 100, singlePlan(100))
	installmentID := title.Installments[0].ID

	_, err := f.svc.Settle(ctx, installmentID, SettleRequest{AccountID: f.account.ID, Amount: 40})
	assert.ErrorIs(t, err, ledger.ErrPartialBelowRemainder)

	partial, err := f.svc.Settle(ctx, installmentID, SettleRequest{AccountID: f.account.ID, Amount: 40, Partial: true})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, partial.Status)
	assert.Equal(t, 60.0, partial.Remaining())

	// O restante quita a parcela
	final, err := f.svc.Settle(ctx, installmentID, SettleRequest{AccountID: f.account.ID, Amount: 60})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, final.Status)
}

func TestSettleWithDiscountMovesNetAmount(t *testing.T) {
	f := newLedgerFixture(t)

	title := f.receivable(t, 100, singlePlan(100))

	// O desconto reduz o dinheiro que entra na conta, não o pago da parcela
	settled, err := f.svc.Settle(context.Background(), title.Installments[0].ID, SettleRequest{
		AccountID: f.account.ID,
		Amount:    100,
		Discount:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, settled.Status)
	assert.Equal(t, 595.0, f.account.RunningBalance)
}

func TestSettleWithInterestMovesGrossAmount(t *testing.T) {
	f := newLedgerFixture(t)

	title := f.receivable(t, 100, singlePlan(100))

	// O juro entra por cima do agendado; pagar o agendado quita a parcela
	settled, err := f.svc.Settle(context.Background(), title.Installments[0].ID, SettleRequest{
		AccountID: f.account.ID,
		Amount:    100,
		Interest:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, settled.Status)
	assert.Equal(t, 610.0, f.account.RunningBalance)

	// O estorno compensa o bruto na conta e devolve o principal na parcela
	reversed, err := f.svc.ReverseLast(context.Background(), title.Installments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, reversed.PaidAmount)
	assert.Equal(t, 0.0, reversed.Interest)
	assert.Equal(t, 500.0, f.account.RunningBalance)
}

func TestSettleRejectsInvalidAmount(t *testing.T) {
	f := newLedgerFixture(t)
	title := f.receivable(t, 100, singlePlan(100))

	_, err := f.svc.Settle(context.Background(), title.Installments[0].ID, SettleRequest{
		AccountID: f.account.ID,
		Amount:    0,
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestUpdateInstallmentScalesTitleTotal(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	title := f.receivable(t, 100, []ledger.PlanEntry{
		{Amount: 50, DueDate: time.Now().AddDate(0, 0, 30)},
		{Amount: 50, DueDate: time.Now().AddDate(0, 0, 60)},
	})
	installmentID := title.Installments[0].ID

	updated, err := f.svc.UpdateInstallment(ctx, installmentID, 70, time.Now().AddDate(0, 0, 45))
	require.NoError(t, err)
	assert.Equal(t, 70.0, updated.ScheduledAmount)

	stored, err := f.repo.FindTitleByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, stored.Total)
}

func TestUpdateInstallmentForbiddenAfterPayment(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	title := f.receivable(t, 100, singlePlan(100))
	installmentID := title.Installments[0].ID

	_, err := f.svc.Settle(ctx, installmentID, SettleRequest{AccountID: f.account.ID, Amount: 40, Partial: true})
	require.NoError(t, err)

	_, err = f.svc.UpdateInstallment(ctx, installmentID, 120, time.Now())
	assert.ErrorIs(t, err, ledger.ErrEditForbidden)
}

func TestDeleteInstallmentRules(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	title := f.receivable(t, 100, []ledger.PlanEntry{
		{Amount: 50, DueDate: time.Now().AddDate(0, 0, 30)},
		{Amount: 50, DueDate: time.Now().AddDate(0, 0, 60)},
	})
	first := title.Installments[0].ID
	second := title.Installments[1].ID

	_, err := f.svc.Settle(ctx, first, SettleRequest{AccountID: f.account.ID, Amount: 50})
	require.NoError(t, err)

	err = f.svc.DeleteInstallment(ctx, first)
	assert.ErrorIs(t, err, ledger.ErrDeleteForbidden)

	require.NoError(t, f.svc.DeleteInstallment(ctx, second))

	stored, err := f.repo.FindTitleByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.Total)

	_, err = f.repo.FindInstallmentByID(ctx, second)
	assert.ErrorIs(t, err, ledger.ErrInstallmentNotFound)
}

func TestTransferMovesBalanceBetweenAccounts(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	safe, err := ledger.NewAccount("org-1", "Cofre", ledger.AccountSafe, 0)
	require.NoError(t, err)
	require.NoError(t, f.repo.CreateAccount(ctx, safe))

	require.NoError(t, f.svc.Transfer(ctx, f.account.ID, safe.ID, 150, "Transferência para o cofre"))

	assert.Equal(t, 350.0, f.account.RunningBalance)
	assert.Equal(t, 150.0, safe.RunningBalance)

	err = f.svc.Transfer(ctx, f.account.ID, f.account.ID, 10, "inválida")
	assert.Error(t, err)
}

func TestRecordMovementUpdatesBalance(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	m, err := f.svc.RecordMovement(ctx, f.account.ID, ledger.MovementOut, 120, "Tarifa bancária")
	require.NoError(t, err)
	assert.Equal(t, 380.0, f.account.RunningBalance)

	require.NoError(t, f.svc.SetReconciled(ctx, m.ID, true))
	stored, err := f.repo.FindMovementByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, stored.Reconciled)
}
