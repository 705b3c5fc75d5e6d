package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDirectionMatchesCategory(t *testing.T) {
	assert.True(t, DirectionPayable.MatchesCategory(KindExpense))
	assert.True(t, DirectionReceivable.MatchesCategory(KindRevenue))
	assert.False(t, DirectionPayable.MatchesCategory(KindRevenue))
	assert.False(t, DirectionReceivable.MatchesCategory(KindExpense))
}

func TestInstallmentRecomputeStatus(t *testing.T) {
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)

	i := &Installment{ScheduledAmount: 500, DueDate: today}
	i.RecomputeStatus(today)
	assert.Equal(t, StatusPending, i.Status)

	// Pagamento parcial mantém pendente
	i.PaidAmount = 200
	i.RecomputeStatus(today)
	assert.Equal(t, StatusPending, i.Status)
	assert.Equal(t, 300.0, i.Remaining())

	// Quitação exata
	i.PaidAmount = 500
	i.RecomputeStatus(today)
	assert.Equal(t, StatusPaid, i.Status)

	// Estorno de parcela vencida volta para vencida, não pendente
	i.PaidAmount = 0
	i.DueDate = today.AddDate(0, 0, -1)
	i.RecomputeStatus(today)
	assert.Equal(t, StatusOverdue, i.Status)
}

func TestInstallmentSettledIgnoresAdjustments(t *testing.T) {
	// Quitação compara pago contra agendado; juros e desconto só
	// alteram o valor movimentado na conta.
	i := &Installment{ScheduledAmount: 100, PaidAmount: 95, Discount: 5}
	assert.False(t, i.IsSettled())
	assert.Equal(t, 5.0, i.Remaining())

	i = &Installment{ScheduledAmount: 100, PaidAmount: 100, Interest: 10}
	assert.True(t, i.IsSettled())
	assert.Equal(t, 0.0, i.Remaining())

	i = &Installment{ScheduledAmount: 100, PaidAmount: 100, Discount: 10}
	assert.True(t, i.IsSettled())
}

func TestValidatePlan(t *testing.T) {
	due := time.Now()

	err := ValidatePlan(300, []PlanEntry{{Amount: 100, DueDate: due}, {Amount: 200, DueDate: due}})
	assert.NoError(t, err)

	// Tolerância de 1 centavo
	err = ValidatePlan(100, []PlanEntry{{Amount: 33.33, DueDate: due}, {Amount: 33.33, DueDate: due}, {Amount: 33.33, DueDate: due}})
	assert.NoError(t, err)

	err = ValidatePlan(300, []PlanEntry{{Amount: 100, DueDate: due}})
	assert.ErrorIs(t, err, ErrInstallmentSumMismatch)

	err = ValidatePlan(300, nil)
	assert.ErrorIs(t, err, ErrInstallmentSumMismatch)

	err = ValidatePlan(100, []PlanEntry{{Amount: 100, DueDate: due}, {Amount: 0, DueDate: due}})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMovementOpposite(t *testing.T) {
	assert.Equal(t, MovementOut, MovementIn.Opposite())
	assert.Equal(t, MovementIn, MovementOut.Opposite())
}
