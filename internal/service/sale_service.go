package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
	"github.com/hugohenrick/erp-pdv/internal/domain/catalog"
	"github.com/hugohenrick/erp-pdv/internal/domain/inventory"
	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
	"github.com/hugohenrick/erp-pdv/internal/domain/sale"
	"github.com/hugohenrick/erp-pdv/internal/infrastructure/database"
	"github.com/hugohenrick/erp-pdv/pkg/money"

	"github.com/google/uuid"
)

// SaleLine é uma linha do pedido de finalização: produto do catálogo ou item
// de texto livre.
type SaleLine struct {
	ProductID   string  `json:"product_id,omitempty"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
}

// SaleTender é um pagamento do pedido de finalização
type SaleTender struct {
	Tender       organization.Tender `json:"tender"`
	SubKind      string              `json:"sub_kind"`
	Amount       float64             `json:"amount"`
	Installments int                 `json:"installments"`
	NSU          string              `json:"nsu"`
	Doc          string              `json:"doc"`
	Deferred     bool                `json:"deferred"`
	DueDates     []time.Time         `json:"due_dates,omitempty"`
}

// FinalizeSaleRequest carrega tudo que a finalização precisa
type FinalizeSaleRequest struct {
	OperatorID           string       `json:"operator_id"`
	TerminalID           string       `json:"terminal_id"`
	CustomerID           *string      `json:"customer_id,omitempty"`
	Lines                []SaleLine   `json:"lines"`
	GlobalDiscount       float64      `json:"global_discount"`
	Tenders              []SaleTender `json:"tenders"`
	DocumentKind         sale.DocumentKind `json:"document_kind"`
	OriginPresaleID      *string      `json:"origin_presale_id,omitempty"`
	ReceivableCategoryID string       `json:"receivable_category_id,omitempty"`
}

// SaleResult é o retorno da finalização
type SaleResult struct {
	Sale         *sale.Sale            `json:"sale"`
	Installments []*ledger.Installment `json:"installments,omitempty"`
}

// SaleService implementa a finalização e o cancelamento de vendas. Cada
// operação é uma única transação; a ordem fixa de bloqueio é
// sessão → conta → estoque → sequências.
type SaleService struct {
	db           database.TxManager
	sales        sale.Repository
	sessions     cashier.Repository
	terminals    organization.TerminalRepository
	places       organization.Repository
	products     catalog.Repository
	ledger       ledger.Repository
	inventory    *InventoryService
	capabilities *CapabilityService
}

// NewSaleService cria uma nova instância de SaleService
func NewSaleService(
	db database.TxManager,
	sales sale.Repository,
	sessions cashier.Repository,
	terminals organization.TerminalRepository,
	places organization.Repository,
	products catalog.Repository,
	ledgerRepo ledger.Repository,
	inventorySvc *InventoryService,
	capabilities *CapabilityService,
) *SaleService {
	return &SaleService{
		db:           db,
		sales:        sales,
		sessions:     sessions,
		terminals:    terminals,
		places:       places,
		products:     products,
		ledger:       ledgerRepo,
		inventory:    inventorySvc,
		capabilities: capabilities,
	}
}

// Finalize valida, compõe e confirma uma venda em uma única transação:
// sessão aberta, totais, pagamentos, estoque, numeração, roteamento de caixa
// e recebível quando aplicável. Qualquer falha desfaz tudo e a numeração não
// é consumida.
func (s *SaleService) Finalize(ctx context.Context, req FinalizeSaleRequest) (*SaleResult, error) {
	caps, err := s.capabilities.Resolve(ctx, req.OperatorID)
	if err != nil {
		return nil, err
	}
	if err := guardDocumentKind(caps, req.DocumentKind, req.OperatorID); err != nil {
		return nil, err
	}

	result := &SaleResult{}

	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		// Sessão aberta do terminal (primeiro bloqueio da ordem fixa)
		session, err := s.sessions.LockOpenByTerminalTx(ctx, tx, req.TerminalID)
		if err != nil {
			return fmt.Errorf("terminal %s: %w", req.TerminalID, err)
		}

		terminal, err := s.terminals.FindByID(ctx, req.TerminalID)
		if err != nil {
			return fmt.Errorf("terminal %s: %w", req.TerminalID, err)
		}
		place, err := s.places.FindPlaceByID(ctx, terminal.FiscalPlaceID)
		if err != nil {
			return fmt.Errorf("estabelecimento %s: %w", terminal.FiscalPlaceID, err)
		}

		newSale := &sale.Sale{
			ID:             uuid.New().String(),
			SessionID:      session.ID,
			OperatorID:     req.OperatorID,
			CustomerID:     req.CustomerID,
			OrganizationID: place.OrganizationID,
			FiscalPlaceID:  place.ID,
			TerminalID:     terminal.ID,
			Series:         terminal.Series,
			SoldAt:         time.Now(),
			Status:         sale.StatusFinalized,
			DocumentKind:   req.DocumentKind,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}

		var stockLines []inventory.Line

		if req.OriginPresaleID != nil {
			// Pré-venda: itens e pagamentos viram histórico do documento
			// fiscal; estoque e roteamento já aconteceram na pré-venda e não
			// se repetem.
			presale, err := s.consumePresale(ctx, tx, *req.OriginPresaleID, req.DocumentKind)
			if err != nil {
				return err
			}
			newSale.OriginPresaleID = req.OriginPresaleID
			newSale.Items = clonePresaleItems(newSale.ID, presale.Items)
			newSale.Payments = clonePresalePayments(newSale.ID, presale.Payments)
			newSale.Subtotal = presale.Subtotal
			newSale.ItemDiscountTotal = presale.ItemDiscountTotal
			newSale.GlobalDiscount = presale.GlobalDiscount
			newSale.FinalTotal = presale.FinalTotal
			newSale.TenderedTotal = presale.TenderedTotal
			newSale.Change = presale.Change
		} else {
			items, lines, err := s.buildItems(ctx, newSale.ID, req.Lines)
			if err != nil {
				return err
			}
			stockLines = lines

			subtotal, itemDiscount, finalTotal, err := sale.ComputeTotals(items, req.GlobalDiscount)
			if err != nil {
				return fmt.Errorf("venda %s: %w", newSale.ID, err)
			}
			if finalTotal < 0 {
				return fmt.Errorf("venda %s: %w", newSale.ID, sale.ErrNegativeLine)
			}

			if err := guardGlobalDiscount(caps, subtotal-itemDiscount, req.GlobalDiscount, req.OperatorID); err != nil {
				return err
			}

			payments := buildPayments(newSale.ID, req.Tenders)
			tendered, change, err := sale.ValidateTenders(payments, finalTotal)
			if err != nil {
				return fmt.Errorf("venda %s: %w", newSale.ID, err)
			}

			newSale.Items = items
			newSale.Payments = payments
			newSale.Subtotal = subtotal
			newSale.ItemDiscountTotal = itemDiscount
			newSale.GlobalDiscount = money.Round2(req.GlobalDiscount)
			newSale.FinalTotal = finalTotal
			newSale.TenderedTotal = tendered
			newSale.Change = change
		}

		// Contas de destino (segundo bloqueio da ordem fixa)
		routes := map[organization.Tender]string{}
		if req.OriginPresaleID == nil {
			for _, p := range newSale.Payments {
				if _, ok := routes[p.Tender]; ok {
					continue
				}
				accountID, err := terminal.RouteAccount(p.Tender)
				if err != nil {
					return fmt.Errorf("terminal %s: %w", terminal.ID, err)
				}
				if _, err := s.ledger.LockAccountTx(ctx, tx, accountID); err != nil {
					return fmt.Errorf("conta %s: %w", accountID, err)
				}
				routes[p.Tender] = accountID
			}

			// Estoque (terceiro bloqueio da ordem fixa)
			if err := s.inventory.Reserve(ctx, tx, stockLines, terminal.DefaultWarehouseID); err != nil {
				return err
			}
		}

		// Numeração fiscal (último bloqueio da ordem fixa)
		if req.DocumentKind == sale.DocumentFiscal {
			number, err := s.terminals.NextDocumentNumberTx(ctx, tx, terminal.ID)
			if err != nil {
				return fmt.Errorf("terminal %s: %w", terminal.ID, err)
			}
			newSale.DocumentNumber = &number
		}

		if err := s.sales.CreateTx(ctx, tx, newSale); err != nil {
			return fmt.Errorf("venda %s: %w", newSale.ID, err)
		}

		if req.OriginPresaleID == nil {
			if err := s.routeTenders(ctx, tx, newSale, session.ID, routes); err != nil {
				return err
			}

			installments, err := s.emitReceivables(ctx, tx, newSale, req)
			if err != nil {
				return err
			}
			result.Installments = installments
		} else {
			if err := s.sales.MarkFiscalizedTx(ctx, tx, *req.OriginPresaleID); err != nil {
				return fmt.Errorf("pré-venda %s: %w", *req.OriginPresaleID, err)
			}
		}

		result.Sale = newSale
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Cancel cancela uma venda finalizada: devolve o estoque, estorna as
// movimentações de roteamento e marca a venda como cancelada.
func (s *SaleService) Cancel(ctx context.Context, saleID, reasonID, operatorID string) error {
	if reasonID == "" {
		return fmt.Errorf("venda %s: %w", saleID, sale.ErrReasonRequired)
	}

	reason, err := s.sales.FindCancellationReason(ctx, reasonID)
	if err != nil || !reason.Active {
		return fmt.Errorf("venda %s: %w", saleID, sale.ErrReasonNotFound)
	}

	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		target, err := s.sales.FindByIDTx(ctx, tx, saleID)
		if err != nil {
			return fmt.Errorf("venda %s: %w", saleID, err)
		}
		if target.Status == sale.StatusCancelled {
			return fmt.Errorf("venda %s: %w", saleID, sale.ErrAlreadyCancelled)
		}
		if target.DocumentKind == sale.DocumentNonFiscal && target.Fiscalized {
			return fmt.Errorf("venda %s: %w", saleID, sale.ErrPresaleFiscalized)
		}

		// O documento fiscal emitido de uma pré-venda não movimentou caixa:
		// o roteamento aconteceu na pré-venda e é lá que se estorna.
		movementSaleID := saleID
		if target.OriginPresaleID != nil {
			movementSaleID = *target.OriginPresaleID
		}

		// Estornar as movimentações de roteamento ainda não estornadas
		movements, err := s.ledger.ListMovementsBySaleTx(ctx, tx, movementSaleID)
		if err != nil {
			return fmt.Errorf("venda %s: %w", movementSaleID, err)
		}

		reversed := map[string]bool{}
		for _, m := range movements {
			if m.ReversalOfID != nil {
				reversed[*m.ReversalOfID] = true
			}
		}

		for _, m := range movements {
			if m.ReversalOfID != nil || reversed[m.ID] {
				continue
			}

			if _, err := s.ledger.LockAccountTx(ctx, tx, m.AccountID); err != nil {
				return fmt.Errorf("conta %s: %w", m.AccountID, err)
			}

			compensating, err := ledger.NewMovement(m.AccountID, m.Kind.Opposite(), m.Amount,
				fmt.Sprintf("Estorno por cancelamento da venda %s", saleID))
			if err != nil {
				return err
			}
			compensating.SessionID = m.SessionID
			compensating.SaleID = m.SaleID
			compensating.ReversalOfID = &m.ID

			if err := s.ledger.PostMovementTx(ctx, tx, compensating); err != nil {
				return fmt.Errorf("conta %s: %w", m.AccountID, err)
			}
		}

		// Devolver o estoque dos itens de mercadoria
		terminal, err := s.terminals.FindByID(ctx, target.TerminalID)
		if err != nil {
			return fmt.Errorf("terminal %s: %w", target.TerminalID, err)
		}

		lines, err := s.stockLinesOf(ctx, target.Items)
		if err != nil {
			return err
		}
		if err := s.inventory.Release(ctx, tx, lines, terminal.DefaultWarehouseID); err != nil {
			return err
		}

		// A pré-venda de origem cai junto: o estoque dela já foi devolvido
		// pelos itens copiados e cancelá-la fecha a porta para uma segunda
		// devolução.
		if target.OriginPresaleID != nil {
			if err := s.sales.CancelTx(ctx, tx, *target.OriginPresaleID, reasonID); err != nil {
				return fmt.Errorf("pré-venda %s: %w", *target.OriginPresaleID, err)
			}
		}

		return s.sales.CancelTx(ctx, tx, saleID, reasonID)
	})
}

// buildItems congela código, descrição e preço dos itens no momento da venda
func (s *SaleService) buildItems(ctx context.Context, saleID string, lines []SaleLine) ([]sale.Item, []inventory.Line, error) {
	if len(lines) == 0 {
		return nil, nil, sale.ErrNoItems
	}

	items := make([]sale.Item, 0, len(lines))
	var stockLines []inventory.Line

	for _, line := range lines {
		item := sale.Item{
			ID:          uuid.New().String(),
			SaleID:      saleID,
			Code:        line.Code,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   money.Round2(line.UnitPrice),
			Discount:    money.Round2(line.Discount),
		}

		if line.ProductID != "" {
			product, err := s.products.FindByID(ctx, line.ProductID)
			if err != nil {
				return nil, nil, fmt.Errorf("produto %s: %w", line.ProductID, err)
			}
			productID := product.ID
			item.ProductID = &productID
			item.Code = product.SKU
			item.Description = product.Name

			if !product.IsService() {
				stockLines = append(stockLines, inventory.Line{
					ProductID: product.ID,
					Quantity:  line.Quantity,
				})
			}
		}

		items = append(items, item)
	}

	return items, stockLines, nil
}

// stockLinesOf reconstrói as linhas de estoque a partir dos itens congelados
func (s *SaleService) stockLinesOf(ctx context.Context, items []sale.Item) ([]inventory.Line, error) {
	var lines []inventory.Line
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		product, err := s.products.FindByID(ctx, *item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("produto %s: %w", *item.ProductID, err)
		}
		if product.IsService() {
			continue
		}
		lines = append(lines, inventory.Line{ProductID: product.ID, Quantity: item.Quantity})
	}
	return lines, nil
}

// routeTenders lança uma entrada na conta de destino de cada pagamento. O
// troco devolvido ao cliente é abatido dos pagamentos em dinheiro antes do
// lançamento; só o que fica na gaveta entra na conta.
func (s *SaleService) routeTenders(ctx context.Context, tx pgx.Tx, newSale *sale.Sale, sessionID string, routes map[organization.Tender]string) error {
	changeLeft := newSale.Change

	for _, p := range newSale.Payments {
		accountID := routes[p.Tender]

		amount := p.Amount
		if p.Tender == organization.TenderCash && changeLeft > 0 {
			deducted := math.Min(amount, changeLeft)
			amount = money.Round2(amount - deducted)
			changeLeft = money.Round2(changeLeft - deducted)
		}
		if amount <= 0 {
			continue
		}

		movement, err := ledger.NewMovement(accountID, ledger.MovementIn, amount,
			fmt.Sprintf("Venda %s (%s)", newSale.ID, p.Tender))
		if err != nil {
			return err
		}
		movement.SessionID = &sessionID
		movement.SaleID = &newSale.ID

		if err := s.ledger.PostMovementTx(ctx, tx, movement); err != nil {
			return fmt.Errorf("conta %s: %w", accountID, err)
		}
	}
	return nil
}

// emitReceivables cria um título a receber para pagamentos parcelados no
// cartão ou marcados como a prazo
func (s *SaleService) emitReceivables(ctx context.Context, tx pgx.Tx, newSale *sale.Sale, req FinalizeSaleRequest) ([]*ledger.Installment, error) {
	var created []*ledger.Installment

	for i, tender := range req.Tenders {
		cardInstallments := tender.Tender == organization.TenderCard && tender.Installments > 1
		deferred := tender.Deferred && tender.Tender != organization.TenderCash
		if !cardInstallments && !deferred {
			continue
		}

		if req.ReceivableCategoryID == "" {
			return nil, fmt.Errorf("venda %s: recebível sem categoria de receita configurada", newSale.ID)
		}
		category, err := s.ledger.FindCategoryByID(ctx, req.ReceivableCategoryID)
		if err != nil {
			return nil, fmt.Errorf("categoria %s: %w", req.ReceivableCategoryID, err)
		}
		if !ledger.DirectionReceivable.MatchesCategory(category.Kind) {
			return nil, fmt.Errorf("categoria %s: %w", category.ID, ledger.ErrCategoryKindMismatch)
		}

		plan := receivablePlan(tender, newSale.SoldAt)

		title := &ledger.Title{
			ID:             uuid.New().String(),
			OrganizationID: newSale.OrganizationID,
			Direction:      ledger.DirectionReceivable,
			CustomerID:     newSale.CustomerID,
			CategoryID:     category.ID,
			IssueDate:      newSale.SoldAt,
			CompetenceDate: newSale.SoldAt,
			DocNumber:      fmt.Sprintf("VENDA-%s-%d", newSale.ID[:8], i+1),
			Description:    fmt.Sprintf("Recebível da venda %s", newSale.ID),
			Total:          tender.Amount,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}

		for _, entry := range plan {
			saleID := newSale.ID
			title.Installments = append(title.Installments, &ledger.Installment{
				ID:              uuid.New().String(),
				TitleID:         title.ID,
				Direction:       ledger.DirectionReceivable,
				CategoryID:      category.ID,
				Description:     entry.Description,
				ScheduledAmount: entry.Amount,
				DueDate:         entry.DueDate,
				Status:          ledger.StatusPending,
				OriginSaleID:    &saleID,
				CreatedAt:       time.Now(),
				UpdatedAt:       time.Now(),
			})
		}

		if err := s.ledger.CreateTitleTx(ctx, tx, title); err != nil {
			return nil, fmt.Errorf("título %s: %w", title.ID, err)
		}

		created = append(created, title.Installments...)
	}

	return created, nil
}

// receivablePlan divide o valor do pagamento nas parcelas agendadas. Sem
// datas informadas, o vencimento é mensal a partir da venda; o resíduo de
// arredondamento fica na primeira parcela.
func receivablePlan(tender SaleTender, soldAt time.Time) []ledger.PlanEntry {
	count := tender.Installments
	if count < 1 {
		count = 1
	}

	amounts := make([]float64, count)
	each := money.Round2(tender.Amount / float64(count))
	for i := range amounts {
		amounts[i] = each
	}
	amounts, _ = money.SpreadResidue(amounts, tender.Amount)

	entries := make([]ledger.PlanEntry, count)
	for i := range entries {
		due := soldAt.AddDate(0, 0, 30*(i+1))
		if i < len(tender.DueDates) {
			due = tender.DueDates[i]
		}
		entries[i] = ledger.PlanEntry{
			Amount:      amounts[i],
			DueDate:     due,
			Description: fmt.Sprintf("Parcela %d/%d", i+1, count),
		}
	}
	return entries
}

func buildPayments(saleID string, tenders []SaleTender) []sale.Payment {
	payments := make([]sale.Payment, 0, len(tenders))
	for _, t := range tenders {
		installments := t.Installments
		if installments < 1 {
			installments = 1
		}
		payments = append(payments, sale.Payment{
			ID:           uuid.New().String(),
			SaleID:       saleID,
			Tender:       t.Tender,
			SubKind:      t.SubKind,
			Amount:       money.Round2(t.Amount),
			Installments: installments,
			NSU:          t.NSU,
			Doc:          t.Doc,
			Deferred:     t.Deferred,
		})
	}
	return payments
}

func guardDocumentKind(caps principal.Capabilities, kind sale.DocumentKind, operatorID string) error {
	switch kind {
	case sale.DocumentFiscal:
		if !caps.Has(principal.CapFinalizeFiscal) {
			return fmt.Errorf("operador %s não pode emitir documento fiscal", operatorID)
		}
	case sale.DocumentNonFiscal:
		if !caps.Has(principal.CapFinalizeNonFiscal) {
			return fmt.Errorf("operador %s não pode emitir venda não fiscal", operatorID)
		}
	default:
		return fmt.Errorf("tipo de documento inválido: %s", kind)
	}
	return nil
}

func guardGlobalDiscount(caps principal.Capabilities, base, discount float64, operatorID string) error {
	if discount <= 0 || base <= 0 {
		return nil
	}
	pct := discount / base * 100
	if pct > caps.MaxDiscountPct()+1e-9 {
		return fmt.Errorf("operador %s: %w", operatorID, sale.ErrDiscountOverLimit)
	}
	return nil
}

// consumePresale valida que a origem é uma venda não fiscal finalizada e
// ainda não consumida
func (s *SaleService) consumePresale(ctx context.Context, tx pgx.Tx, presaleID string, kind sale.DocumentKind) (*sale.Sale, error) {
	if kind != sale.DocumentFiscal {
		return nil, fmt.Errorf("pré-venda %s: %w", presaleID, sale.ErrPresaleMustBeNonFiscal)
	}

	presale, err := s.sales.FindByIDTx(ctx, tx, presaleID)
	if err != nil {
		return nil, fmt.Errorf("pré-venda %s: %w", presaleID, sale.ErrPresaleNotFound)
	}
	if presale.DocumentKind != sale.DocumentNonFiscal || presale.Status != sale.StatusFinalized {
		return nil, fmt.Errorf("pré-venda %s: %w", presaleID, sale.ErrPresaleMustBeNonFiscal)
	}
	if presale.Fiscalized {
		return nil, fmt.Errorf("pré-venda %s: %w", presaleID, sale.ErrPresaleAlreadyUsed)
	}

	return presale, nil
}

func clonePresaleItems(saleID string, items []sale.Item) []sale.Item {
	cloned := make([]sale.Item, len(items))
	for i, item := range items {
		item.ID = uuid.New().String()
		item.SaleID = saleID
		cloned[i] = item
	}
	return cloned
}

func clonePresalePayments(saleID string, payments []sale.Payment) []sale.Payment {
	cloned := make([]sale.Payment, len(payments))
	for i, p := range payments {
		p.ID = uuid.New().String()
		p.SaleID = saleID
		cloned[i] = p
	}
	return cloned
}
