package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	"github.com/kavindus/autoparts_pos_app/internal/core/services"
	portssvc "github.com/kavindus/autoparts_pos_app/internal/core/ports/services"
)

type SequenceServiceTestSuite struct {
	suite.Suite
	txManager *fakeTxManager
	service   portssvc.SequenceSvcFacade
}

func (suite *SequenceServiceTestSuite) SetupTest() {
	suite.txManager = newFakeTxManager()
	suite.service = services.NewSequenceService()
}

func (suite *SequenceServiceTestSuite) TestNextReferenceNumber_Formats() {
	ctx := context.Background()
	now := time.Date(2025, time.February, 10, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		txnType  domain.TransactionType
		sequence int64
		expected string
	}{
		{domain.Sale, 1, "A0010225"},
		{domain.Battery, 42, "B0420225"},
		{domain.OnHold, 7, "OH0070225"},
		{domain.Credit, 999, "CR9990225"},
	}

	for _, tc := range cases {
		suite.txManager.uow.seq.On("NextSequence", ctx, "LOC1", tc.txnType, 2, 2025).Return(tc.sequence, nil).Once()

		refNo, err := suite.service.NextReferenceNumber(ctx, suite.txManager.uow, "LOC1", tc.txnType, now)

		suite.Require().NoError(err)
		suite.Equal(tc.expected, refNo)
	}

	suite.txManager.uow.seq.AssertExpectations(suite.T())
}

func (suite *SequenceServiceTestSuite) TestNextReferenceNumber_UnsupportedType() {
	ctx := context.Background()
	now := time.Date(2025, time.February, 10, 9, 30, 0, 0, time.UTC)

	_, err := suite.service.NextReferenceNumber(ctx, suite.txManager.uow, "LOC1", domain.Refund, now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SequenceServiceTestSuite) TestParse_RoundTrip() {
	parsed, err := suite.service.Parse("A0010225")

	suite.Require().NoError(err)
	suite.Equal(domain.Sale, parsed.Type)
	suite.Equal(int64(1), parsed.Sequence)
	suite.Equal(2, parsed.Month)
	suite.Equal(2025, parsed.Year)
}

func (suite *SequenceServiceTestSuite) TestParse_TwoLetterPrefix() {
	parsed, err := suite.service.Parse("OH1231124")

	suite.Require().NoError(err)
	suite.Equal(domain.OnHold, parsed.Type)
	suite.Equal(int64(123), parsed.Sequence)
	suite.Equal(11, parsed.Month)
	suite.Equal(2024, parsed.Year)
}

func (suite *SequenceServiceTestSuite) TestParse_RejectsMalformed() {
	malformed := []string{
		"",
		"ZZ999999",   // unknown prefix
		"A10225",     // sequence too short
		"A01130225",  // too many digits
		"REF1700000", // ad hoc reference, not structured
		"A0011325",   // month 13
		"A0010025",   // month 0
	}

	for _, refNo := range malformed {
		_, err := suite.service.Parse(refNo)
		suite.Require().Error(err, "expected %q to be rejected", refNo)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
}

func (suite *SequenceServiceTestSuite) TestIsStructuredReference() {
	suite.True(services.IsStructuredReference("A0010225"))
	suite.True(services.IsStructuredReference("CR0010125"))
	suite.False(services.IsStructuredReference("REF17000001234"))
	suite.False(services.IsStructuredReference("A010225"))
}

func TestSequenceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SequenceServiceTestSuite))
}
