package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
	"github.com/kavindus/autoparts_pos_app/internal/core/services"
)

type InventoryLedgerTestSuite struct {
	suite.Suite
	txManager *fakeTxManager
	ledger    portssvc.InventoryLedgerFacade
}

func (suite *InventoryLedgerTestSuite) SetupTest() {
	suite.txManager = newFakeTxManager()
	suite.ledger = services.NewInventoryLedger()
}

func (suite *InventoryLedgerTestSuite) standardProduct() domain.Product {
	return domain.Product{ProductID: "P1", Name: "Brake Pad", Category: "Brakes"}
}

func (suite *InventoryLedgerTestSuite) lubricantProduct() domain.Product {
	return domain.Product{ProductID: "P2", Name: "Engine Oil", Category: "Lubricants"}
}

func (suite *InventoryLedgerTestSuite) TestDeduct_ConsumesBatchesOldestFirst() {
	ctx := context.Background()
	inv := suite.txManager.uow.inv

	inventory := &domain.Inventory{
		InventoryID:   "INV1",
		ProductID:     "P1",
		LocationID:    "LOC1",
		StandardStock: 13,
		TotalStock:    13,
	}
	older := domain.Batch{
		BatchID:        "B1",
		InventoryID:    "INV1",
		CostPrice:      decimal.NewFromInt(100),
		StockRemaining: 3,
		IsActiveBatch:  true,
		PurchaseDate:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := domain.Batch{
		BatchID:        "B2",
		InventoryID:    "INV1",
		CostPrice:      decimal.NewFromInt(120),
		StockRemaining: 10,
		IsActiveBatch:  true,
		PurchaseDate:   time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
	}

	inv.On("FindForUpdate", ctx, "P1", "LOC1").Return(inventory, nil).Once()
	inv.On("UpdateStockLevels", ctx, mock.MatchedBy(func(got domain.Inventory) bool {
		return got.StandardStock == 8 && got.TotalStock == 8
	})).Return(nil).Once()
	inv.On("FindActiveBatchesForUpdate", ctx, "INV1").Return([]domain.Batch{older, newer}, nil).Once()
	inv.On("UpdateBatchRemaining", ctx, "B1", 0).Return(nil).Once()
	inv.On("UpdateBatchRemaining", ctx, "B2", 8).Return(nil).Once()

	result, err := suite.ledger.Deduct(ctx, suite.txManager.uow, suite.standardProduct(), "LOC1", 5, "")

	suite.Require().NoError(err)
	suite.Require().Len(result.Consumed, 2)
	suite.Equal("B1", result.Consumed[0].BatchID)
	suite.Equal(3, result.Consumed[0].Quantity)
	suite.Equal("B2", result.Consumed[1].BatchID)
	suite.Equal(2, result.Consumed[1].Quantity)
	suite.Equal(0, result.UncostedQuantity)

	// 3*100 + 2*120
	suite.True(result.CostOfGoods().Equal(decimal.NewFromInt(540)))

	inv.AssertExpectations(suite.T())
}

func (suite *InventoryLedgerTestSuite) TestDeduct_InsufficientStock() {
	ctx := context.Background()
	inv := suite.txManager.uow.inv

	inventory := &domain.Inventory{
		InventoryID:   "INV1",
		ProductID:     "P1",
		LocationID:    "LOC1",
		StandardStock: 2,
		TotalStock:    2,
	}
	inv.On("FindForUpdate", ctx, "P1", "LOC1").Return(inventory, nil).Once()

	_, err := suite.ledger.Deduct(ctx, suite.txManager.uow, suite.standardProduct(), "LOC1", 5, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	inv.AssertNotCalled(suite.T(), "UpdateStockLevels", mock.Anything, mock.Anything)
	inv.AssertNotCalled(suite.T(), "UpdateBatchRemaining", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryLedgerTestSuite) TestDeduct_LubricantUsesBottlePool() {
	ctx := context.Background()
	inv := suite.txManager.uow.inv

	inventory := &domain.Inventory{
		InventoryID:        "INV2",
		ProductID:          "P2",
		LocationID:         "LOC1",
		OpenBottlesStock:   4,
		ClosedBottlesStock: 6,
		TotalStock:         10,
	}
	inv.On("FindForUpdate", ctx, "P2", "LOC1").Return(inventory, nil).Once()
	inv.On("UpdateStockLevels", ctx, mock.MatchedBy(func(got domain.Inventory) bool {
		return got.OpenBottlesStock == 1 && got.ClosedBottlesStock == 6 && got.TotalStock == 7
	})).Return(nil).Once()
	inv.On("FindActiveBatchesForUpdate", ctx, "INV2").Return([]domain.Batch{}, nil).Once()

	result, err := suite.ledger.Deduct(ctx, suite.txManager.uow, suite.lubricantProduct(), "LOC1", 3, domain.OpenBottles)

	suite.Require().NoError(err)
	suite.Equal(3, result.UncostedQuantity)
	inv.AssertExpectations(suite.T())
}

func (suite *InventoryLedgerTestSuite) TestDeduct_LubricantClosedPoolShortfall() {
	ctx := context.Background()
	inv := suite.txManager.uow.inv

	inventory := &domain.Inventory{
		InventoryID:        "INV2",
		ProductID:          "P2",
		LocationID:         "LOC1",
		OpenBottlesStock:   9,
		ClosedBottlesStock: 1,
		TotalStock:         10,
	}
	inv.On("FindForUpdate", ctx, "P2", "LOC1").Return(inventory, nil).Once()

	// Open bottles are plentiful but the closed pool cannot cover the request.
	_, err := suite.ledger.Deduct(ctx, suite.txManager.uow, suite.lubricantProduct(), "LOC1", 2, domain.ClosedBottles)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
}

func (suite *InventoryLedgerTestSuite) TestRestore_StandardStock() {
	ctx := context.Background()
	inv := suite.txManager.uow.inv

	inventory := &domain.Inventory{
		InventoryID:   "INV1",
		ProductID:     "P1",
		LocationID:    "LOC1",
		StandardStock: 3,
		TotalStock:    3,
	}
	inv.On("FindForUpdate", ctx, "P1", "LOC1").Return(inventory, nil).Once()
	inv.On("UpdateStockLevels", ctx, mock.MatchedBy(func(got domain.Inventory) bool {
		return got.StandardStock == 5 && got.TotalStock == 5
	})).Return(nil).Once()

	err := suite.ledger.Restore(ctx, suite.txManager.uow, suite.standardProduct(), "LOC1", 2)

	suite.Require().NoError(err)
	inv.AssertExpectations(suite.T())
}

func (suite *InventoryLedgerTestSuite) TestRestore_LubricantGoesToClosedBottles() {
	ctx := context.Background()
	inv := suite.txManager.uow.inv

	inventory := &domain.Inventory{
		InventoryID:        "INV2",
		ProductID:          "P2",
		LocationID:         "LOC1",
		OpenBottlesStock:   2,
		ClosedBottlesStock: 1,
		TotalStock:         3,
	}
	inv.On("FindForUpdate", ctx, "P2", "LOC1").Return(inventory, nil).Once()
	inv.On("UpdateStockLevels", ctx, mock.MatchedBy(func(got domain.Inventory) bool {
		return got.OpenBottlesStock == 2 && got.ClosedBottlesStock == 3 && got.TotalStock == 5
	})).Return(nil).Once()

	err := suite.ledger.Restore(ctx, suite.txManager.uow, suite.lubricantProduct(), "LOC1", 2)

	suite.Require().NoError(err)
	inv.AssertExpectations(suite.T())
}

func TestInventoryLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryLedgerTestSuite))
}
