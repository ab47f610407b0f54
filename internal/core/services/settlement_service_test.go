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
	"github.com/kavindus/autoparts_pos_app/internal/dto"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	txManager *fakeTxManager
	service   portssvc.SettlementSvcFacade
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.txManager = newFakeTxManager()
	suite.service = services.NewSettlementService(suite.txManager)
}

func (suite *SettlementServiceTestSuite) onHoldTxn() *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   "T1",
		ReferenceNumber: "OH0050225",
		LocationID:      "LOC1",
		ShopID:          "SHOP1",
		CashierID:       "cashier-1",
		Type:            domain.OnHold,
		TotalAmount:     decimal.NewFromInt(4200),
		TotalCost:       decimal.NewFromInt(3000),
		ItemsSold: []domain.SoldItem{
			{ProductID: "P1", Description: "Alternator", Quantity: 1, UnitPrice: decimal.NewFromInt(4200)},
		},
		PaymentMethod: "ON_HOLD",
		CreatedAt:     time.Date(2025, time.February, 5, 10, 0, 0, 0, time.UTC),
	}
}

func (suite *SettlementServiceTestSuite) TestSettle_OnHold() {
	txns := suite.txManager.uow.txns

	txns.On("FindByReferenceNumber", mock.Anything, "OH0050225").Return(suite.onHoldTxn(), nil).Once()
	txns.On("FindSettlementOf", mock.Anything, "OH0050225").Return(nil, apperrors.NewNotFoundError("no settlement")).Once()
	txns.On("SaveTransaction", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.OnHoldPaid &&
			txn.TotalAmount.Equal(decimal.NewFromInt(4200)) &&
			txn.PaymentMethod == "CASH" &&
			txn.OriginalReferenceNumber != nil && *txn.OriginalReferenceNumber == "OH0050225"
	})).Return(nil).Once()

	req := dto.SettlementRequest{ReferenceNumber: "OH0050225", PaymentMethod: "CASH"}

	txn, err := suite.service.Settle(context.Background(), req, "cashier-2")

	suite.Require().NoError(err)
	suite.Equal(domain.OnHoldPaid, txn.Type)
	suite.True(len(txn.ReferenceNumber) > 2 && txn.ReferenceNumber[:2] == "PD")
	// Items carry over unchanged from the original.
	suite.Require().Len(txn.ItemsSold, 1)
	suite.Equal("Alternator", txn.ItemsSold[0].Description)
	txns.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestSettle_CreditBecomesCreditPaid() {
	txns := suite.txManager.uow.txns

	credit := suite.onHoldTxn()
	credit.ReferenceNumber = "CR0010225"
	credit.Type = domain.Credit
	credit.PaymentMethod = "CREDIT"

	txns.On("FindByReferenceNumber", mock.Anything, "CR0010225").Return(credit, nil).Once()
	txns.On("FindSettlementOf", mock.Anything, "CR0010225").Return(nil, apperrors.NewNotFoundError("no settlement")).Once()
	txns.On("SaveTransaction", mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.CreditPaid
	})).Return(nil).Once()

	req := dto.SettlementRequest{ReferenceNumber: "CR0010225", PaymentMethod: "CARD"}

	txn, err := suite.service.Settle(context.Background(), req, "cashier-2")

	suite.Require().NoError(err)
	suite.Equal(domain.CreditPaid, txn.Type)
}

func (suite *SettlementServiceTestSuite) TestSettle_AlreadySettled() {
	txns := suite.txManager.uow.txns

	settled := &domain.Transaction{TransactionID: "T2", Type: domain.OnHoldPaid}
	txns.On("FindByReferenceNumber", mock.Anything, "OH0050225").Return(suite.onHoldTxn(), nil).Once()
	txns.On("FindSettlementOf", mock.Anything, "OH0050225").Return(settled, nil).Once()

	req := dto.SettlementRequest{ReferenceNumber: "OH0050225", PaymentMethod: "CASH"}

	_, err := suite.service.Settle(context.Background(), req, "cashier-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadySettled)
	txns.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestSettle_GuardIndexRace() {
	txns := suite.txManager.uow.txns

	// The advisory check passes but a concurrent settlement wins the insert;
	// the repository surfaces the unique violation as ErrAlreadySettled.
	txns.On("FindByReferenceNumber", mock.Anything, "OH0050225").Return(suite.onHoldTxn(), nil).Once()
	txns.On("FindSettlementOf", mock.Anything, "OH0050225").Return(nil, apperrors.NewNotFoundError("no settlement")).Once()
	txns.On("SaveTransaction", mock.Anything, mock.AnythingOfType("domain.Transaction")).
		Return(apperrors.NewAppError(409, "settlement already exists", apperrors.ErrAlreadySettled)).Once()

	req := dto.SettlementRequest{ReferenceNumber: "OH0050225", PaymentMethod: "CASH"}

	_, err := suite.service.Settle(context.Background(), req, "cashier-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadySettled)
}

func (suite *SettlementServiceTestSuite) TestSettle_NonDeferredRejected() {
	txns := suite.txManager.uow.txns

	sale := suite.onHoldTxn()
	sale.ReferenceNumber = "A0010225"
	sale.Type = domain.Sale

	txns.On("FindByReferenceNumber", mock.Anything, "A0010225").Return(sale, nil).Once()

	req := dto.SettlementRequest{ReferenceNumber: "A0010225", PaymentMethod: "CASH"}

	_, err := suite.service.Settle(context.Background(), req, "cashier-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *SettlementServiceTestSuite) TestSettle_NotFound() {
	txns := suite.txManager.uow.txns

	txns.On("FindByReferenceNumber", mock.Anything, "OH9990225").
		Return(nil, apperrors.NewNotFoundError("no such transaction")).Once()

	req := dto.SettlementRequest{ReferenceNumber: "OH9990225", PaymentMethod: "CASH"}

	_, err := suite.service.Settle(context.Background(), req, "cashier-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
