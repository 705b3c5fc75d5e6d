package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
	"github.com/hugohenrick/erp-pdv/internal/infrastructure/database"
	"github.com/hugohenrick/erp-pdv/pkg/money"
)

// CashierService implementa o ciclo de vida da sessão de caixa: abertura,
// movimentações manuais e fechamento com conferência.
type CashierService struct {
	db           database.TxManager
	sessions     cashier.Repository
	capabilities *CapabilityService
}

// NewCashierService cria uma nova instância de CashierService
func NewCashierService(db database.TxManager, sessions cashier.Repository, capabilities *CapabilityService) *CashierService {
	return &CashierService{
		db:           db,
		sessions:     sessions,
		capabilities: capabilities,
	}
}

// Open abre uma sessão de caixa para o terminal. Falha se já houver sessão
// aberta; aberturas concorrentes são decididas pelo índice único parcial.
func (s *CashierService) Open(ctx context.Context, terminalID, operatorID string, openingFloat float64) (*cashier.Session, error) {
	caps, err := s.capabilities.Resolve(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !caps.Has(principal.CapOpenCash) {
		return nil, fmt.Errorf("operador %s não pode abrir caixa", operatorID)
	}

	session, err := cashier.NewSession(terminalID, operatorID, openingFloat)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.sessions.LockOpenByTerminalTx(ctx, tx, terminalID); err == nil {
			return fmt.Errorf("terminal %s: %w", terminalID, cashier.ErrAlreadyOpen)
		} else if !errors.Is(err, cashier.ErrNoOpenSession) {
			return err
		}

		return s.sessions.CreateTx(ctx, tx, session)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// RecordMovement registra uma sangria ou suprimento na sessão aberta do terminal
func (s *CashierService) RecordMovement(ctx context.Context, terminalID string, kind cashier.MovementKind, amount float64, reason string, authorizerID *string) (*cashier.Movement, error) {
	var movement *cashier.Movement

	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		session, err := s.sessions.LockOpenByTerminalTx(ctx, tx, terminalID)
		if err != nil {
			return fmt.Errorf("terminal %s: %w", terminalID, err)
		}

		movement, err = cashier.NewMovement(session.ID, kind, amount, reason, authorizerID)
		if err != nil {
			return err
		}

		return s.sessions.CreateMovementTx(ctx, tx, movement)
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// Close fecha a sessão aberta do terminal, pelo operador que a abriu ou por
// outro operador acompanhado de um autorizador. O esperado é
// fundo de troco + vendas em dinheiro + suprimentos − sangrias; quando o delta
// excede a tolerância e o operador não tem a capacidade de fechar com
// divergência, um autorizador com essa capacidade é exigido.
func (s *CashierService) Close(ctx context.Context, terminalID, operatorID string, declared float64, authorizerID *string) (*cashier.Session, error) {
	caps, err := s.capabilities.Resolve(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	var session *cashier.Session

	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		session, err = s.sessions.LockOpenByTerminalTx(ctx, tx, terminalID)
		if err != nil {
			return fmt.Errorf("terminal %s: %w", terminalID, err)
		}

		// Só quem abriu a sessão fecha; outro operador precisa vir como
		// autorizador identificado.
		if operatorID != session.OperatorID {
			if authorizerID == nil {
				return fmt.Errorf("sessão %s: %w", session.ID, cashier.ErrCloseWrongOperator)
			}
			if _, err := s.capabilities.Resolve(ctx, *authorizerID); err != nil {
				return err
			}
		}

		totals, err := s.sessions.TotalsTx(ctx, tx, session.ID)
		if err != nil {
			return fmt.Errorf("sessão %s: %w", session.ID, err)
		}

		expected := totals.Expected(session.OpeningFloat)
		delta := money.Round2(declared - expected)

		if math.Abs(delta) > money.Tolerance && !caps.Has(principal.CapCloseWithDivergence) {
			if authorizerID == nil {
				return fmt.Errorf("sessão %s: %w", session.ID, cashier.ErrCloseNeedsAuthorizer)
			}
			authCaps, err := s.capabilities.Resolve(ctx, *authorizerID)
			if err != nil {
				return err
			}
			if !authCaps.Has(principal.CapCloseWithDivergence) {
				return fmt.Errorf("sessão %s: %w", session.ID, cashier.ErrCloseNeedsAuthorizer)
			}
		}

		if err := session.Close(declared, expected, authorizerID); err != nil {
			return fmt.Errorf("sessão %s: %w", session.ID, err)
		}

		return s.sessions.CloseTx(ctx, tx, session)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}
