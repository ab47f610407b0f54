package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
)

// MockTransactionRepository is a mock type for the TransactionTxRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) AttachReceipt(ctx context.Context, transactionID string, html string, batteryBill bool) error {
	args := m.Called(ctx, transactionID, html, batteryBill)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindSettlementOf(ctx context.Context, originalReferenceNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, originalReferenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// MockInventoryRepository is a mock type for the InventoryTxRepository interface
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindForUpdate(ctx context.Context, productID, locationID string) (*domain.Inventory, error) {
	args := m.Called(ctx, productID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) UpdateStockLevels(ctx context.Context, inv domain.Inventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindActiveBatchesForUpdate(ctx context.Context, inventoryID string) ([]domain.Batch, error) {
	args := m.Called(ctx, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Batch), args.Error(1)
}

func (m *MockInventoryRepository) UpdateBatchRemaining(ctx context.Context, batchID string, stockRemaining int) error {
	args := m.Called(ctx, batchID, stockRemaining)
	return args.Error(0)
}

// MockSequenceRepository is a mock type for the SequenceTxRepository interface
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextSequence(ctx context.Context, locationID string, txnType domain.TransactionType, month, year int) (int64, error) {
	args := m.Called(ctx, locationID, txnType, month, year)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock type for the ProductRepository interface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTransactionReadRepository is a mock type for the TransactionReadRepository interface
type MockTransactionReadRepository struct {
	mock.Mock
}

func (m *MockTransactionReadRepository) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionReadRepository) ListByLocation(ctx context.Context, locationID string, since time.Time, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, locationID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// fakeUnitOfWork hands the mock repositories to service code under test.
type fakeUnitOfWork struct {
	txns *MockTransactionRepository
	inv  *MockInventoryRepository
	seq  *MockSequenceRepository
}

func (u *fakeUnitOfWork) Transactions() portsrepo.TransactionTxRepository { return u.txns }

func (u *fakeUnitOfWork) Inventory() portsrepo.InventoryTxRepository { return u.inv }

func (u *fakeUnitOfWork) Sequences() portsrepo.SequenceTxRepository { return u.seq }

// fakeTxManager runs the unit-of-work function directly. An error from fn is
// returned unchanged, standing in for a rollback.
type fakeTxManager struct {
	uow *fakeUnitOfWork
}

func newFakeTxManager() *fakeTxManager {
	return &fakeTxManager{
		uow: &fakeUnitOfWork{
			txns: new(MockTransactionRepository),
			inv:  new(MockInventoryRepository),
			seq:  new(MockSequenceRepository),
		},
	}
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	return fn(ctx, m.uow)
}
