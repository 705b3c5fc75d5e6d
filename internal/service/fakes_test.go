package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hugohenrick/erp-pdv/internal/domain/cashier"
	"github.com/hugohenrick/erp-pdv/internal/domain/catalog"
	"github.com/hugohenrick/erp-pdv/internal/domain/inventory"
	"github.com/hugohenrick/erp-pdv/internal/domain/ledger"
	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
	"github.com/hugohenrick/erp-pdv/internal/domain/principal"
	"github.com/hugohenrick/erp-pdv/internal/domain/sale"
	"github.com/hugohenrick/erp-pdv/pkg/money"
)

// fakeTxManager executa a função com tx nula; as implementações falsas abaixo
// ignoram o parâmetro de transação.
type fakeTxManager struct{}

func (f *fakeTxManager) Transaction(ctx context.Context, txFunc func(tx pgx.Tx) error) error {
	return txFunc(nil)
}

type fakePrincipalRepo struct {
	byID map[string]*principal.Principal
}

func newFakePrincipalRepo() *fakePrincipalRepo {
	return &fakePrincipalRepo{byID: map[string]*principal.Principal{}}
}

func (r *fakePrincipalRepo) Create(ctx context.Context, p *principal.Principal) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakePrincipalRepo) Update(ctx context.Context, p *principal.Principal) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakePrincipalRepo) UpdateTheme(ctx context.Context, id string, theme principal.Theme) error {
	p, ok := r.byID[id]
	if !ok {
		return principal.ErrNotFound
	}
	p.Theme = theme
	return nil
}

func (r *fakePrincipalRepo) FindByID(ctx context.Context, id string) (*principal.Principal, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, principal.ErrNotFound
	}
	return p, nil
}

func (r *fakePrincipalRepo) FindByHandle(ctx context.Context, handle string) (*principal.Principal, error) {
	for _, p := range r.byID {
		if p.Handle == handle {
			return p, nil
		}
	}
	return nil, principal.ErrNotFound
}

func (r *fakePrincipalRepo) List(ctx context.Context, limit, offset int) ([]*principal.Principal, error) {
	var out []*principal.Principal
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

type fakeSessionRepo struct {
	byID      map[string]*cashier.Session
	movements []*cashier.Movement
	totals    map[string]cashier.Totals
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		byID:   map[string]*cashier.Session{},
		totals: map[string]cashier.Totals{},
	}
}

func (r *fakeSessionRepo) CreateTx(ctx context.Context, tx pgx.Tx, s *cashier.Session) error {
	r.byID[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) CloseTx(ctx context.Context, tx pgx.Tx, s *cashier.Session) error {
	r.byID[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id string) (*cashier.Session, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, cashier.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) FindOpenByTerminal(ctx context.Context, terminalID string) (*cashier.Session, error) {
	for _, s := range r.byID {
		if s.TerminalID == terminalID && s.IsOpen() {
			return s, nil
		}
	}
	return nil, cashier.ErrNoOpenSession
}

func (r *fakeSessionRepo) LockOpenByTerminalTx(ctx context.Context, tx pgx.Tx, terminalID string) (*cashier.Session, error) {
	return r.FindOpenByTerminal(ctx, terminalID)
}

func (r *fakeSessionRepo) CreateMovementTx(ctx context.Context, tx pgx.Tx, m *cashier.Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeSessionRepo) ListMovements(ctx context.Context, sessionID string) ([]*cashier.Movement, error) {
	var out []*cashier.Movement
	for _, m := range r.movements {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) TotalsTx(ctx context.Context, tx pgx.Tx, sessionID string) (cashier.Totals, error) {
	totals := r.totals[sessionID]
	for _, m := range r.movements {
		if m.SessionID != sessionID {
			continue
		}
		if m.Kind == cashier.MovementSupply {
			totals.Supplies += m.Amount
		} else {
			totals.Withdrawals += m.Amount
		}
	}
	return totals, nil
}

func (r *fakeSessionRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*cashier.Session, error) {
	var out []*cashier.Session
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

type fakeTerminalRepo struct {
	byID map[string]*organization.Terminal
}

func newFakeTerminalRepo() *fakeTerminalRepo {
	return &fakeTerminalRepo{byID: map[string]*organization.Terminal{}}
}

func (r *fakeTerminalRepo) Create(ctx context.Context, t *organization.Terminal) error {
	r.byID[t.ID] = t
	return nil
}

func (r *fakeTerminalRepo) Update(ctx context.Context, t *organization.Terminal) error {
	r.byID[t.ID] = t
	return nil
}

func (r *fakeTerminalRepo) FindByID(ctx context.Context, id string) (*organization.Terminal, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, organization.ErrTerminalNotFound
	}
	return t, nil
}

func (r *fakeTerminalRepo) FindByHostname(ctx context.Context, hostname string) (*organization.Terminal, error) {
	for _, t := range r.byID {
		if t.Hostname == hostname {
			return t, nil
		}
	}
	return nil, organization.ErrTerminalNotFound
}

func (r *fakeTerminalRepo) List(ctx context.Context, fiscalPlaceID string) ([]*organization.Terminal, error) {
	var out []*organization.Terminal
	for _, t := range r.byID {
		if t.FiscalPlaceID == fiscalPlaceID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTerminalRepo) NextDocumentNumberTx(ctx context.Context, tx pgx.Tx, terminalID string) (int64, error) {
	t, ok := r.byID[terminalID]
	if !ok {
		return 0, organization.ErrTerminalNotFound
	}
	number := t.NextDocumentNumber
	t.NextDocumentNumber++
	return number, nil
}

type fakeOrgRepo struct {
	orgs   map[string]*organization.Organization
	places map[string]*organization.FiscalPlace
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{
		orgs:   map[string]*organization.Organization{},
		places: map[string]*organization.FiscalPlace{},
	}
}

func (r *fakeOrgRepo) Create(ctx context.Context, o *organization.Organization) error {
	r.orgs[o.ID] = o
	return nil
}

func (r *fakeOrgRepo) Update(ctx context.Context, o *organization.Organization) error {
	r.orgs[o.ID] = o
	return nil
}

func (r *fakeOrgRepo) FindByID(ctx context.Context, id string) (*organization.Organization, error) {
	o, ok := r.orgs[id]
	if !ok {
		return nil, organization.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrgRepo) FindByDocument(ctx context.Context, document string) (*organization.Organization, error) {
	for _, o := range r.orgs {
		if o.Document == document {
			return o, nil
		}
	}
	return nil, organization.ErrNotFound
}

func (r *fakeOrgRepo) List(ctx context.Context, limit, offset int) ([]*organization.Organization, error) {
	var out []*organization.Organization
	for _, o := range r.orgs {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrgRepo) CreatePlace(ctx context.Context, p *organization.FiscalPlace) error {
	r.places[p.ID] = p
	return nil
}

func (r *fakeOrgRepo) FindPlaceByID(ctx context.Context, id string) (*organization.FiscalPlace, error) {
	p, ok := r.places[id]
	if !ok {
		return nil, organization.ErrPlaceNotFound
	}
	return p, nil
}

func (r *fakeOrgRepo) ListPlaces(ctx context.Context, organizationID string) ([]*organization.FiscalPlace, error) {
	var out []*organization.FiscalPlace
	for _, p := range r.places {
		if p.OrganizationID == organizationID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	byID   map[string]*catalog.Product
	prices map[string]*catalog.ProductPrice
	tables map[string]*catalog.PriceTable
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		byID:   map[string]*catalog.Product{},
		prices: map[string]*catalog.ProductPrice{},
		tables: map[string]*catalog.PriceTable{},
	}
}

func (r *fakeProductRepo) CreateTx(ctx context.Context, tx pgx.Tx, p *catalog.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *catalog.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.byID {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (r *fakeProductRepo) FindByEAN(ctx context.Context, ean string) (*catalog.Product, error) {
	for _, p := range r.byID {
		if p.EAN != nil && *p.EAN == ean {
			return p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (r *fakeProductRepo) FindByAlternateCode(ctx context.Context, code string) (*catalog.Product, error) {
	for _, p := range r.byID {
		for _, alt := range p.AlternateCodes {
			if alt == code {
				return p, nil
			}
		}
	}
	return nil, catalog.ErrNotFound
}

func (r *fakeProductRepo) List(ctx context.Context, limit, offset int) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) CreatePriceTable(ctx context.Context, t *catalog.PriceTable) error {
	r.tables[t.ID] = t
	return nil
}

func (r *fakeProductRepo) FindPriceTableByDocument(ctx context.Context, document string) (*catalog.PriceTable, error) {
	for _, t := range r.tables {
		if t.Document == document {
			return t, nil
		}
	}
	return nil, catalog.ErrTableNotFound
}

func (r *fakeProductRepo) UpsertPrice(ctx context.Context, p *catalog.ProductPrice) error {
	r.prices[p.ProductID+"|"+p.PriceTableID] = p
	return nil
}

func (r *fakeProductRepo) FindPrice(ctx context.Context, productID, priceTableID string) (*catalog.ProductPrice, error) {
	p, ok := r.prices[productID+"|"+priceTableID]
	if !ok {
		return nil, catalog.ErrNoPrice
	}
	return p, nil
}

type fakeStockRepo struct {
	levels     map[string]*inventory.StockLevel
	warehouses map[string]*inventory.Warehouse
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		levels:     map[string]*inventory.StockLevel{},
		warehouses: map[string]*inventory.Warehouse{},
	}
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (r *fakeStockRepo) setStock(productID, warehouseID string, qty float64) {
	r.levels[stockKey(productID, warehouseID)] = &inventory.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    qty,
	}
}

func (r *fakeStockRepo) CreateWarehouse(ctx context.Context, w *inventory.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeStockRepo) FindWarehouseByID(ctx context.Context, id string) (*inventory.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, inventory.ErrWarehouseNotFound
	}
	return w, nil
}

func (r *fakeStockRepo) ListWarehouses(ctx context.Context, organizationID string) ([]*inventory.Warehouse, error) {
	var out []*inventory.Warehouse
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	return out, nil
}

func (r *fakeStockRepo) FindStock(ctx context.Context, productID, warehouseID string) (*inventory.StockLevel, error) {
	s, ok := r.levels[stockKey(productID, warehouseID)]
	if !ok {
		return nil, inventory.ErrStockNotFound
	}
	return s, nil
}

func (r *fakeStockRepo) LockStockTx(ctx context.Context, tx pgx.Tx, productID, warehouseID string) (*inventory.StockLevel, error) {
	return r.FindStock(ctx, productID, warehouseID)
}

func (r *fakeStockRepo) AdjustStockTx(ctx context.Context, tx pgx.Tx, productID, warehouseID string, delta float64) error {
	s, ok := r.levels[stockKey(productID, warehouseID)]
	if !ok {
		return inventory.ErrStockNotFound
	}
	s.Quantity += delta
	return nil
}

type fakeSaleRepo struct {
	byID    map[string]*sale.Sale
	reasons map[string]*sale.CancellationReason
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		byID:    map[string]*sale.Sale{},
		reasons: map[string]*sale.CancellationReason{},
	}
}

func (r *fakeSaleRepo) CreateTx(ctx context.Context, tx pgx.Tx, s *sale.Sale) error {
	r.byID[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) CancelTx(ctx context.Context, tx pgx.Tx, saleID, reasonID string) error {
	s, ok := r.byID[saleID]
	if !ok {
		return sale.ErrNotFound
	}
	s.Status = sale.StatusCancelled
	s.CancellationReasonID = &reasonID
	return nil
}

func (r *fakeSaleRepo) MarkFiscalizedTx(ctx context.Context, tx pgx.Tx, presaleID string) error {
	s, ok := r.byID[presaleID]
	if !ok {
		return sale.ErrNotFound
	}
	s.Fiscalized = true
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, sale.ErrNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) FindByIDTx(ctx context.Context, tx pgx.Tx, id string) (*sale.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSaleRepo) ListBySession(ctx context.Context, sessionID string) ([]*sale.Sale, error) {
	var out []*sale.Sale
	for _, s := range r.byID {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ListPendingNonFiscal(ctx context.Context, from, to time.Time) ([]*sale.Sale, error) {
	var out []*sale.Sale
	for _, s := range r.byID {
		if s.DocumentKind == sale.DocumentNonFiscal && s.Status == sale.StatusFinalized && !s.Fiscalized {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) FindCancellationReason(ctx context.Context, id string) (*sale.CancellationReason, error) {
	reason, ok := r.reasons[id]
	if !ok {
		return nil, sale.ErrReasonNotFound
	}
	return reason, nil
}

func (r *fakeSaleRepo) CreateCancellationReason(ctx context.Context, reason *sale.CancellationReason) error {
	r.reasons[reason.ID] = reason
	return nil
}

func (r *fakeSaleRepo) ListCancellationReasons(ctx context.Context) ([]*sale.CancellationReason, error) {
	var out []*sale.CancellationReason
	for _, reason := range r.reasons {
		out = append(out, reason)
	}
	return out, nil
}

type fakeLedgerRepo struct {
	accounts     map[string]*ledger.Account
	categories   map[string]*ledger.Category
	costCenters  map[string]*ledger.CostCenter
	titles       map[string]*ledger.Title
	installments map[string]*ledger.Installment
	movements    []*ledger.Movement
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		accounts:     map[string]*ledger.Account{},
		categories:   map[string]*ledger.Category{},
		costCenters:  map[string]*ledger.CostCenter{},
		titles:       map[string]*ledger.Title{},
		installments: map[string]*ledger.Installment{},
	}
}

func (r *fakeLedgerRepo) CreateAccount(ctx context.Context, a *ledger.Account) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeLedgerRepo) FindAccountByID(ctx context.Context, id string) (*ledger.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	return a, nil
}

func (r *fakeLedgerRepo) ListAccounts(ctx context.Context, organizationID string) ([]*ledger.Account, error) {
	var out []*ledger.Account
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeLedgerRepo) LockAccountTx(ctx context.Context, tx pgx.Tx, accountID string) (*ledger.Account, error) {
	return r.FindAccountByID(ctx, accountID)
}

func (r *fakeLedgerRepo) PostMovementTx(ctx context.Context, tx pgx.Tx, m *ledger.Movement) error {
	a, ok := r.accounts[m.AccountID]
	if !ok {
		return ledger.ErrAccountNotFound
	}
	a.RunningBalance = money.Round2(a.RunningBalance + m.SignedAmount())
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeLedgerRepo) FindMovementByID(ctx context.Context, id string) (*ledger.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ledger.ErrMovementNotFound
}

func (r *fakeLedgerRepo) FindLastOpenMovementTx(ctx context.Context, tx pgx.Tx, installmentID string) (*ledger.Movement, error) {
	reversed := map[string]bool{}
	for _, m := range r.movements {
		if m.ReversalOfID != nil {
			reversed[*m.ReversalOfID] = true
		}
	}
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if m.InstallmentID != nil && *m.InstallmentID == installmentID &&
			m.ReversalOfID == nil && !reversed[m.ID] {
			return m, nil
		}
	}
	return nil, ledger.ErrMovementNotFound
}

func (r *fakeLedgerRepo) ListMovementsBySaleTx(ctx context.Context, tx pgx.Tx, saleID string) ([]*ledger.Movement, error) {
	var out []*ledger.Movement
	for _, m := range r.movements {
		if m.SaleID != nil && *m.SaleID == saleID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) SetReconciled(ctx context.Context, movementID string, flag bool) error {
	for _, m := range r.movements {
		if m.ID == movementID {
			m.Reconciled = flag
			return nil
		}
	}
	return ledger.ErrMovementNotFound
}

func (r *fakeLedgerRepo) CreateCategory(ctx context.Context, c *ledger.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeLedgerRepo) FindCategoryByID(ctx context.Context, id string) (*ledger.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, ledger.ErrCategoryNotFound
	}
	return c, nil
}

func (r *fakeLedgerRepo) ListCategories(ctx context.Context, organizationID string) ([]*ledger.Category, error) {
	var out []*ledger.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeLedgerRepo) CreateCostCenter(ctx context.Context, c *ledger.CostCenter) error {
	r.costCenters[c.ID] = c
	return nil
}

func (r *fakeLedgerRepo) ListCostCenters(ctx context.Context, organizationID string) ([]*ledger.CostCenter, error) {
	var out []*ledger.CostCenter
	for _, c := range r.costCenters {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeLedgerRepo) CreateTitleTx(ctx context.Context, tx pgx.Tx, t *ledger.Title) error {
	r.titles[t.ID] = t
	for _, i := range t.Installments {
		r.installments[i.ID] = i
	}
	return nil
}

func (r *fakeLedgerRepo) FindTitleByID(ctx context.Context, id string) (*ledger.Title, error) {
	t, ok := r.titles[id]
	if !ok {
		return nil, ledger.ErrTitleNotFound
	}
	return t, nil
}

func (r *fakeLedgerRepo) UpdateTitleTotalTx(ctx context.Context, tx pgx.Tx, titleID string, delta float64) error {
	t, ok := r.titles[titleID]
	if !ok {
		return ledger.ErrTitleNotFound
	}
	t.Total = money.Round2(t.Total + delta)
	return nil
}

func (r *fakeLedgerRepo) FindInstallmentByID(ctx context.Context, id string) (*ledger.Installment, error) {
	i, ok := r.installments[id]
	if !ok {
		return nil, ledger.ErrInstallmentNotFound
	}
	return i, nil
}

func (r *fakeLedgerRepo) LockInstallmentTx(ctx context.Context, tx pgx.Tx, id string) (*ledger.Installment, error) {
	return r.FindInstallmentByID(ctx, id)
}

func (r *fakeLedgerRepo) UpdateInstallmentTx(ctx context.Context, tx pgx.Tx, i *ledger.Installment) error {
	r.installments[i.ID] = i
	return nil
}

func (r *fakeLedgerRepo) DeleteInstallmentTx(ctx context.Context, tx pgx.Tx, id string) error {
	delete(r.installments, id)
	return nil
}

func (r *fakeLedgerRepo) ListInstallmentsByTitle(ctx context.Context, titleID string) ([]*ledger.Installment, error) {
	var out []*ledger.Installment
	for _, i := range r.installments {
		if i.TitleID == titleID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].DueDate.Before(out[b].DueDate) })
	return out, nil
}

func (r *fakeLedgerRepo) ListInstallmentsByDue(ctx context.Context, direction ledger.Direction, from, to time.Time) ([]*ledger.Installment, error) {
	var out []*ledger.Installment
	for _, i := range r.installments {
		if i.Direction == direction && !i.DueDate.Before(from) && !i.DueDate.After(to) {
			out = append(out, i)
		}
	}
	return out, nil
}

type fakeSequenceRepo struct {
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: map[string]int64{}}
}

func (r *fakeSequenceRepo) NextTx(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	if _, ok := r.counters[name]; !ok {
		return 0, fmt.Errorf("sequência %s não encontrada", name)
	}
	r.counters[name]++
	return r.counters[name], nil
}
