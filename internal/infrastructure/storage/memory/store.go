// Package memory provides mutex-guarded in-memory repositories. Used by
// service tests and by dev mode when no database is configured.
package memory

import (
	"context"
	"sync"

	"fifostock/internal/core/id"
	"fifostock/internal/core/tx"
	"fifostock/internal/domain/auth"
	"fifostock/internal/domain/catalogs/company"
	"fifostock/internal/domain/catalogs/product"
	"fifostock/internal/domain/ledger"
)

// Store holds all in-memory state behind one lock. Repositories are thin
// views over it, so cross-entity reads stay consistent.
//
// mu guards individual repository calls; txMu serializes whole units of
// work (see TxManager), the in-memory stand-in for the row lock a database
// transaction would take.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	products  map[id.ID]product.Product
	lots      map[id.ID]ledger.PurchaseLot
	sales     map[id.ID]ledger.Sale
	movements []ledger.StockMovement
	users     map[id.ID]auth.User
	company   *company.Company
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products: make(map[id.ID]product.Product),
		lots:     make(map[id.ID]ledger.PurchaseLot),
		sales:    make(map[id.ID]ledger.Sale),
		users:    make(map[id.ID]auth.User),
	}
}

// Products returns the product repository view.
func (s *Store) Products() *ProductRepo { return &ProductRepo{store: s} }

// Lots returns the purchase lot repository view.
func (s *Store) Lots() *LotRepo { return &LotRepo{store: s} }

// Sales returns the sale repository view.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{store: s} }

// Movements returns the movement repository view.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{store: s} }

// Users returns the user repository view.
func (s *Store) Users() *UserRepo { return &UserRepo{store: s} }

// Companies returns the company repository view.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{store: s} }

// Reports returns the report repository view.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{store: s} }

// snapshot captures store state for transaction rollback. Entry types are
// plain values, so copying the containers is enough.
type snapshot struct {
	products  map[id.ID]product.Product
	lots      map[id.ID]ledger.PurchaseLot
	sales     map[id.ID]ledger.Sale
	movements []ledger.StockMovement
	users     map[id.ID]auth.User
	company   *company.Company
}

func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot{
		products:  make(map[id.ID]product.Product, len(s.products)),
		lots:      make(map[id.ID]ledger.PurchaseLot, len(s.lots)),
		sales:     make(map[id.ID]ledger.Sale, len(s.sales)),
		movements: append([]ledger.StockMovement(nil), s.movements...),
		users:     make(map[id.ID]auth.User, len(s.users)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.lots {
		snap.lots[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	if s.company != nil {
		c := *s.company
		snap.company = &c
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = snap.products
	s.lots = snap.lots
	s.sales = snap.sales
	s.movements = snap.movements
	s.users = snap.users
	s.company = snap.company
}

// TxManager implements tx.Manager over the store. RunInTransaction holds a
// store-wide lock for the whole callback, so concurrent units of work
// serialize the way FOR UPDATE row locks serialize them against a database,
// and restores the pre-transaction snapshot when the callback fails.
type TxManager struct {
	store *Store
}

var _ tx.Manager = (*TxManager)(nil)
var _ tx.ReadOnlyManager = (*TxManager)(nil)

// NewTxManager creates a transaction manager bound to the store.
func NewTxManager(store *Store) *TxManager { return &TxManager{store: store} }

type txKey struct{}

// RunInTransaction executes fn as one serialized, all-or-nothing unit of
// work. Nested calls join the enclosing transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// ReadOnly executes fn while no transaction can commit, so multi-call reads
// observe one consistent state.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}
