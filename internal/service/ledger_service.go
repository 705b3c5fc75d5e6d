package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
	"github.com/hugohenrick/erp-pdv/internal/infrastructure/database"
	"github.com/hugohenrick/erp-pdv/pkg/money"
)

// CreateTitleRequest carrega o cabeçalho e o plano de parcelamento de um título
type CreateTitleRequest struct {
	OrganizationID string             `json:"organization_id"`
	Direction      ledger.Direction   `json:"direction"`
	CustomerID     *string            `json:"customer_id,omitempty"`
	SupplierID     *string            `json:"supplier_id,omitempty"`
	CategoryID     string             `json:"category_id"`
	CostCenterID   *string            `json:"cost_center_id,omitempty"`
	IssueDate      time.Time          `json:"issue_date"`
	CompetenceDate time.Time          `json:"competence_date"`
	DocNumber      string             `json:"doc_number"`
	Description    string             `json:"description"`
	Total          float64            `json:"total"`
	Plan           []ledger.PlanEntry `json:"plan"`
}

// SettleRequest carrega os dados de uma baixa de parcela
type SettleRequest struct {
	AccountID string     `json:"account_id"`
	Amount    float64    `json:"amount"`
	Interest  float64    `json:"interest"`
	Fine      float64    `json:"fine"`
	Discount  float64    `json:"discount"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`
	Partial   bool       `json:"partial"`
}

// LedgerService implementa o razão financeiro: contas, categorias, títulos,
// baixas, estornos e movimentações diretas.
type LedgerService struct {
	db     database.TxManager
	ledger ledger.Repository
}

// NewLedgerService cria uma nova instância de LedgerService
func NewLedgerService(db database.TxManager, ledgerRepo ledger.Repository) *LedgerService {
	return &LedgerService{db: db, ledger: ledgerRepo}
}

// CreateAccount cadastra uma conta financeira
func (s *LedgerService) CreateAccount(ctx context.Context, organizationID, name string, kind ledger.AccountKind, openingBalance float64) (*ledger.Account, error) {
	account, err := ledger.NewAccount(organizationID, name, kind, openingBalance)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("conta %s: %w", account.ID, err)
	}
	return account, nil
}

// CreateCategory cadastra uma categoria; nós filhos herdam obrigatoriamente o
// tipo da categoria pai.
func (s *LedgerService) CreateCategory(ctx context.Context, c *ledger.Category) error {
	if c.ParentID != nil {
		parent, err := s.ledger.FindCategoryByID(ctx, *c.ParentID)
		if err != nil {
			return fmt.Errorf("categoria %s: %w", *c.ParentID, err)
		}
		if parent.Kind != c.Kind {
			return fmt.Errorf("categoria %s: %w", c.ID, ledger.ErrCategoryRootKind)
		}
	}
	if err := s.ledger.CreateCategory(ctx, c); err != nil {
		return fmt.Errorf("categoria %s: %w", c.ID, err)
	}
	return nil
}

// CreateTitle cria um título com suas parcelas em uma única transação. A
// direção precisa casar com o tipo da categoria e a soma do plano com o total.
func (s *LedgerService) CreateTitle(ctx context.Context, req CreateTitleRequest) (*ledger.Title, error) {
	category, err := s.ledger.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("categoria %s: %w", req.CategoryID, err)
	}
	if !req.Direction.MatchesCategory(category.Kind) {
		return nil, fmt.Errorf("categoria %s: %w", category.ID, ledger.ErrCategoryKindMismatch)
	}

	if err := ledger.ValidatePlan(req.Total, req.Plan); err != nil {
		return nil, err
	}

	title := &ledger.Title{
		ID:             uuid.New().String(),
		OrganizationID: req.OrganizationID,
		Direction:      req.Direction,
		CustomerID:     req.CustomerID,
		SupplierID:     req.SupplierID,
		CategoryID:     req.CategoryID,
		CostCenterID:   req.CostCenterID,
		IssueDate:      req.IssueDate,
		CompetenceDate: req.CompetenceDate,
		DocNumber:      req.DocNumber,
		Description:    req.Description,
		Total:          money.Round2(req.Total),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	for _, entry := range req.Plan {
		title.Installments = append(title.Installments, &ledger.Installment{
			ID:              uuid.New().String(),
			TitleID:         title.ID,
			Direction:       req.Direction,
			CategoryID:      req.CategoryID,
			CostCenterID:    req.CostCenterID,
			Description:     entry.Description,
			ScheduledAmount: money.Round2(entry.Amount),
			DueDate:         entry.DueDate,
			Status:          ledger.StatusPending,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		})
	}

	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		return s.ledger.CreateTitleTx(ctx, tx, title)
	})
	if err != nil {
		return nil, fmt.Errorf("título %s: %w", title.ID, err)
	}

	return title, nil
}

// Settle baixa uma parcela contra uma conta financeira: lança a movimentação
// do dinheiro que circulou e acumula pago, juros, multa e desconto na parcela.
// Baixa que não quita o saldo precisa vir marcada como parcial.
func (s *LedgerService) Settle(ctx context.Context, installmentID string, req SettleRequest) (*ledger.Installment, error) {
	if req.Amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	var installment *ledger.Installment

	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		var err error
		installment, err = s.ledger.LockInstallmentTx(ctx, tx, installmentID)
		if err != nil {
			return fmt.Errorf("parcela %s: %w", installmentID, err)
		}
		if installment.IsSettled() {
			return fmt.Errorf("parcela %s: %w", installmentID, ledger.ErrAlreadyPaid)
		}

		next := *installment
		next.PaidAmount = money.Round2(installment.PaidAmount + req.Amount)
		next.Interest = money.Round2(installment.Interest + req.Interest)
		next.Fine = money.Round2(installment.Fine + req.Fine)
		next.Discount = money.Round2(installment.Discount + req.Discount)

		if !next.IsSettled() && !req.Partial {
			return fmt.Errorf("parcela %s: %w", installmentID, ledger.ErrPartialBelowRemainder)
		}

		if _, err := s.ledger.LockAccountTx(ctx, tx, req.AccountID); err != nil {
			return fmt.Errorf("conta %s: %w", req.AccountID, err)
		}

		kind := ledger.MovementIn
		if installment.Direction == ledger.DirectionPayable {
			kind = ledger.MovementOut
		}

		// O dinheiro que circula na conta carrega juros e desconto; a parcela
		// acumula só o valor principal da baixa.
		effective := money.Round2(req.Amount + req.Interest - req.Discount)
		movement, err := ledger.NewMovement(req.AccountID, kind, effective,
			fmt.Sprintf("Baixa da parcela %s", installment.Description))
		if err != nil {
			return err
		}
		movement.InstallmentID = &installment.ID
		if req.PaidDate != nil {
			movement.OccurredAt = *req.PaidDate
		}

		if err := s.ledger.PostMovementTx(ctx, tx, movement); err != nil {
			return fmt.Errorf("conta %s: %w", req.AccountID, err)
		}

		installment.PaidAmount = next.PaidAmount
		installment.Interest = next.Interest
		installment.Fine = next.Fine
		installment.Discount = next.Discount

		now := time.Now()
		paidDate := now
		if req.PaidDate != nil {
			paidDate = *req.PaidDate
		}
		if installment.IsSettled() {
			installment.PaidDate = &paidDate
		}
		installment.RecomputeStatus(now)

		return s.ledger.UpdateInstallmentTx(ctx, tx, installment)
	})
	if err != nil {
		return nil, err
	}

	return installment, nil
}

// ReverseLast estorna a última baixa não estornada da parcela: lança a
// movimentação compensatória na mesma conta e devolve os acumuladores. Quando
// o estorno zera o pago, juros, multa e desconto informados na baixa também
// são descartados.
func (s *LedgerService) ReverseLast(ctx context.Context, installmentID string) (*ledger.Installment, error) {
	var installment *ledger.Installment

	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		var err error
		installment, err = s.ledger.LockInstallmentTx(ctx, tx, installmentID)
		if err != nil {
			return fmt.Errorf("parcela %s: %w", installmentID, err)
		}

		last, err := s.ledger.FindLastOpenMovementTx(ctx, tx, installmentID)
		if err != nil {
			return fmt.Errorf("parcela %s: %w", installmentID, ledger.ErrNothingToReverse)
		}

		if _, err := s.ledger.LockAccountTx(ctx, tx, last.AccountID); err != nil {
			return fmt.Errorf("conta %s: %w", last.AccountID, err)
		}

		compensating, err := ledger.NewMovement(last.AccountID, last.Kind.Opposite(), last.Amount,
			fmt.Sprintf("Estorno da baixa da parcela %s", installment.Description))
		if err != nil {
			return err
		}
		compensating.InstallmentID = &installment.ID
		compensating.ReversalOfID = &last.ID

		if err := s.ledger.PostMovementTx(ctx, tx, compensating); err != nil {
			return fmt.Errorf("conta %s: %w", last.AccountID, err)
		}

		// A movimentação estornada carrega juros e desconto; o principal
		// devolvido ao saldo da parcela é o valor líquido dos ajustes.
		principal := money.Round2(last.Amount - installment.Interest + installment.Discount)
		installment.PaidAmount = money.Round2(installment.PaidAmount - principal)
		if installment.PaidAmount <= money.Tolerance {
			installment.PaidAmount = 0
			installment.Interest = 0
			installment.Fine = 0
			installment.Discount = 0
		}
		installment.PaidDate = nil
		installment.RecomputeStatus(time.Now())

		return s.ledger.UpdateInstallmentTx(ctx, tx, installment)
	})
	if err != nil {
		return nil, err
	}

	return installment, nil
}

// UpdateInstallment altera valor e vencimento de uma parcela sem pagamento,
// propagando a diferença de valor para o total do título.
func (s *LedgerService) UpdateInstallment(ctx context.Context, installmentID string, amount float64, dueDate time.Time) (*ledger.Installment, error) {
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	var installment *ledger.Installment

	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		var err error
		installment, err = s.ledger.LockInstallmentTx(ctx, tx, installmentID)
		if err != nil {
			return fmt.Errorf("parcela %s: %w", installmentID, err)
		}
		if installment.PaidAmount > 0 {
			return fmt.Errorf("parcela %s: %w", installmentID, ledger.ErrEditForbidden)
		}

		delta := money.Round2(amount - installment.ScheduledAmount)
		if delta != 0 {
			if err := s.ledger.UpdateTitleTotalTx(ctx, tx, installment.TitleID, delta); err != nil {
				return fmt.Errorf("título %s: %w", installment.TitleID, err)
			}
		}

		installment.ScheduledAmount = money.Round2(amount)
		installment.DueDate = dueDate
		installment.RecomputeStatus(time.Now())

		return s.ledger.UpdateInstallmentTx(ctx, tx, installment)
	})
	if err != nil {
		return nil, err
	}

	return installment, nil
}

// DeleteInstallment exclui uma parcela pendente e sem pagamento, abatendo o
// valor agendado do total do título.
func (s *LedgerService) DeleteInstallment(ctx context.Context, installmentID string) error {
	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		installment, err := s.ledger.LockInstallmentTx(ctx, tx, installmentID)
		if err != nil {
			return fmt.Errorf("parcela %s: %w", installmentID, err)
		}
		if installment.PaidAmount > 0 || installment.Status == ledger.StatusPaid {
			return fmt.Errorf("parcela %s: %w", installmentID, ledger.ErrDeleteForbidden)
		}

		if err := s.ledger.UpdateTitleTotalTx(ctx, tx, installment.TitleID, -installment.ScheduledAmount); err != nil {
			return fmt.Errorf("título %s: %w", installment.TitleID, err)
		}

		return s.ledger.DeleteInstallmentTx(ctx, tx, installmentID)
	})
}

// RecordMovement lança uma movimentação avulsa de entrada ou saída em uma conta
func (s *LedgerService) RecordMovement(ctx context.Context, accountID string, kind ledger.MovementKind, amount float64, description string) (*ledger.Movement, error) {
	movement, err := ledger.NewMovement(accountID, kind, amount, description)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.ledger.LockAccountTx(ctx, tx, accountID); err != nil {
			return fmt.Errorf("conta %s: %w", accountID, err)
		}
		return s.ledger.PostMovementTx(ctx, tx, movement)
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// Transfer move um valor entre duas contas da organização. As contas são
// bloqueadas em ordem de ID para evitar deadlock entre transferências cruzadas.
func (s *LedgerService) Transfer(ctx context.Context, fromID, toID string, amount float64, description string) error {
	if amount <= 0 {
		return ledger.ErrInvalidAmount
	}
	if fromID == toID {
		return fmt.Errorf("conta %s: origem e destino iguais", fromID)
	}

	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}
		if _, err := s.ledger.LockAccountTx(ctx, tx, first); err != nil {
			return fmt.Errorf("conta %s: %w", first, err)
		}
		if _, err := s.ledger.LockAccountTx(ctx, tx, second); err != nil {
			return fmt.Errorf("conta %s: %w", second, err)
		}

		out, err := ledger.NewMovement(fromID, ledger.MovementOut, amount, description)
		if err != nil {
			return err
		}
		if err := s.ledger.PostMovementTx(ctx, tx, out); err != nil {
			return fmt.Errorf("conta %s: %w", fromID, err)
		}

		in, err := ledger.NewMovement(toID, ledger.MovementIn, amount, description)
		if err != nil {
			return err
		}
		if err := s.ledger.PostMovementTx(ctx, tx, in); err != nil {
			return fmt.Errorf("conta %s: %w", toID, err)
		}
		return nil
	})
}

// SetReconciled marca ou desmarca a conferência de uma movimentação
func (s *LedgerService) SetReconciled(ctx context.Context, movementID string, flag bool) error {
	if err := s.ledger.SetReconciled(ctx, movementID, flag); err != nil {
		return fmt.Errorf("movimentação %s: %w", movementID, err)
	}
	return nil
}
