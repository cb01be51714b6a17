package order

import (
	"context"

	"github.com/store/backend/internal/domain/catalog"
	"github.com/store/backend/internal/domain/inventory"
	"github.com/store/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories touched
// by checkout and settlement. When a function is executed within a scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically - a checkout that fails after reserving part of its
// lines leaves no reservation behind.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within one
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() order.Repository
	// Stocks returns the product stock repository scoped to the current transaction
	Stocks() inventory.ProductStockRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests with mocked repositories.
type NoOpTransactionScope struct {
	orderRepo   order.Repository
	stockRepo   inventory.ProductStockRepository
	productRepo catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo order.Repository,
	stockRepo inventory.ProductStockRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		stockRepo:   stockRepo,
		productRepo: productRepo,
	}
}

// Execute runs the function without transaction boundaries.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository.
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orderRepo
}

// Stocks returns the product stock repository.
func (s *NoOpTransactionScope) Stocks() inventory.ProductStockRepository {
	return s.stockRepo
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.productRepo
}
