package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
)

func seedOperator(t *testing.T, principals *fakePrincipalRepo, forms map[string]bool, limits map[string]float64) *principal.Principal {
	t.Helper()
	p, err := principal.NewPrincipal("op."+t.Name(), "Operador", "senha123", principal.Capabilities{
		Forms:  forms,
		Limits: limits,
	})
	require.NoError(t, err)
	require.NoError(t, principals.Create(context.Background(), p))
	return p
}

func newCashierFixture(t *testing.T) (*CashierService, *fakeSessionRepo, *fakePrincipalRepo) {
	t.Helper()
	principals := newFakePrincipalRepo()
	sessions := newFakeSessionRepo()
	svc := NewCashierService(&fakeTxManager{}, sessions, NewCapabilityService(principals))
	return svc, sessions, principals
}

func TestOpenRequiresCapability(t *testing.T) {
	svc, _, principals := newCashierFixture(t)
	operator := seedOperator(t, principals, nil, nil)

	_, err := svc.Open(context.Background(), "term-1", operator.ID, 100)
	assert.Error(t, err)
}

func TestOpenRejectsSecondSession(t *testing.T) {
	svc, _, principals := newCashierFixture(t)
	operator := seedOperator(t, principals, map[string]bool{principal.CapOpenCash: true}, nil)

	_, err := svc.Open(context.Background(), "term-1", operator.ID, 100)
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), "term-1", operator.ID, 50)
	assert.ErrorIs(t, err, cashier.ErrAlreadyOpen)

	// Outro terminal continua livre
	_, err = svc.Open(context.Background(), "term-2", operator.ID, 50)
	assert.NoError(t, err)
}

func TestCloseComputesExpectedAndDelta(t *testing.T) {
	svc, sessions, principals := newCashierFixture(t)
	operator := seedOperator(t, principals, map[string]bool{principal.CapOpenCash: true}, nil)

	session, err := svc.Open(context.Background(), "term-1", operator.ID, 100)
	require.NoError(t, err)

	// Venda em dinheiro de 25 com troco de 5 deixa 20 na gaveta
	sessions.totals[session.ID] = cashier.Totals{CashSales: 20}

	_, err = svc.RecordMovement(context.Background(), "term-1", cashier.MovementSupply, 30, "reforço de troco", nil)
	require.NoError(t, err)
	_, err = svc.RecordMovement(context.Background(), "term-1", cashier.MovementWithdrawal, 10, "sangria", nil)
	require.NoError(t, err)

	closed, err := svc.Close(context.Background(), "term-1", operator.ID, 140, nil)
	require.NoError(t, err)

	require.NotNil(t, closed.ComputedClose)
	assert.Equal(t, 140.0, *closed.ComputedClose) // 100 + 20 + 30 − 10
	assert.Equal(t, 0.0, *closed.Delta)
	assert.Equal(t, cashier.StatusClosed, closed.Status)
}

func TestCloseAfterCloseFails(t *testing.T) {
	svc, _, principals := newCashierFixture(t)
	operator := seedOperator(t, principals, map[string]bool{principal.CapOpenCash: true}, nil)

	_, err := svc.Open(context.Background(), "term-1", operator.ID, 100)
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), "term-1", operator.ID, 100, nil)
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), "term-1", operator.ID, 100, nil)
	assert.ErrorIs(t, err, cashier.ErrNoOpenSession)
}

func TestCloseDivergenceRequiresAuthorizer(t *testing.T) {
	svc, sessions, principals := newCashierFixture(t)
	operator := seedOperator(t, principals, map[string]bool{principal.CapOpenCash: true}, nil)

	session, err := svc.Open(context.Background(), "term-1", operator.ID, 100)
	require.NoError(t, err)
	sessions.totals[session.ID] = cashier.Totals{CashSales: 50}

	// Declarado 145 contra esperado 150: divergência acima da tolerância
	_, err = svc.Close(context.Background(), "term-1", operator.ID, 145, nil)
	assert.ErrorIs(t, err, cashier.ErrCloseNeedsAuthorizer)

	// Autorizador sem a capacidade também não serve
	weak, err := principal.NewPrincipal("fiscal.fraco", "Fiscal", "senha123", principal.Capabilities{})
	require.NoError(t, err)
	require.NoError(t, principals.Create(context.Background(), weak))

	_, err = svc.Close(context.Background(), "term-1", operator.ID, 145, &weak.ID)
	assert.ErrorIs(t, err, cashier.ErrCloseNeedsAuthorizer)

	supervisor, err := principal.NewPrincipal("fiscal", "Fiscal", "senha123", principal.Capabilities{
		Forms: map[string]bool{principal.CapCloseWithDivergence: true},
	})
	require.NoError(t, err)
	require.NoError(t, principals.Create(context.Background(), supervisor))

	closed, err := svc.Close(context.Background(), "term-1", operator.ID, 145, &supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, -5.0, *closed.Delta)
	assert.Equal(t, supervisor.ID, *closed.AuthorizerID)
}

func TestCloseByAnotherOperatorRequiresAuthorizer(t *testing.T) {
	svc, _, principals := newCashierFixture(t)
	opener := seedOperator(t, principals, map[string]bool{principal.CapOpenCash: true}, nil)

	_, err := svc.Open(context.Background(), "term-1", opener.ID, 100)
	require.NoError(t, err)

	other, err := principal.NewPrincipal("caixa2", "Outro Operador", "senha123", principal.Capabilities{
		Forms: map[string]bool{principal.CapOpenCash: true},
	})
	require.NoError(t, err)
	require.NoError(t, principals.Create(context.Background(), other))

	// Outro operador sem autorizador é rejeitado mesmo sem divergência
	_, err = svc.Close(context.Background(), "term-1", other.ID, 100, nil)
	assert.ErrorIs(t, err, cashier.ErrCloseWrongOperator)

	supervisor, err := principal.NewPrincipal("fiscal", "Fiscal", "senha123", principal.Capabilities{
		Forms: map[string]bool{principal.CapCloseWithDivergence: true},
	})
	require.NoError(t, err)
	require.NoError(t, principals.Create(context.Background(), supervisor))

	closed, err := svc.Close(context.Background(), "term-1", other.ID, 100, &supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, cashier.StatusClosed, closed.Status)

	// O operador da própria sessão segue fechando sem autorizador
	_, err = svc.Open(context.Background(), "term-2", opener.ID, 50)
	require.NoError(t, err)
	_, err = svc.Close(context.Background(), "term-2", opener.ID, 50, nil)
	assert.NoError(t, err)
}

func TestCloseWithinToleranceNeedsNoAuthorizer(t *testing.T) {
	svc, sessions, principals := newCashierFixture(t)
	operator := seedOperator(t, principals, map[string]bool{principal.CapOpenCash: true}, nil)

	session, err := svc.Open(context.Background(), "term-1", operator.ID, 100)
	require.NoError(t, err)
	sessions.totals[session.ID] = cashier.Totals{CashSales: 50}

	closed, err := svc.Close(context.Background(), "term-1", operator.ID, 150.01, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.01, *closed.Delta)
}

func TestRecordMovementValidation(t *testing.T) {
	svc, _, principals := newCashierFixture(t)
	operator := seedOperator(t, principals, map[string]bool{principal.CapOpenCash: true}, nil)

	_, err := svc.RecordMovement(context.Background(), "term-1", cashier.MovementSupply, 10, "reforço", nil)
	assert.ErrorIs(t, err, cashier.ErrNoOpenSession)

	_, err = svc.Open(context.Background(), "term-1", operator.ID, 100)
	require.NoError(t, err)

	_, err = svc.RecordMovement(context.Background(), "term-1", cashier.MovementWithdrawal, 0, "sangria", nil)
	assert.ErrorIs(t, err, cashier.ErrInvalidAmount)
}
