package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizledger/internal/apperrors"
	"bizledger/internal/core/domain"
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/core/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockPeriodRepository
	service   portssvc.PeriodSvcFacade
	companyID string
	userID    string
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPeriodRepository)
	suite.service = services.NewPeriodService(suite.mockRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *PeriodServiceTestSuite) TestResolvePeriod_ContainingPeriodWins() {
	ctx := context.Background()
	date := time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	existing := &domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		CompanyID: suite.companyID,
		StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
	}

	suite.mockRepo.On("FindPeriodContaining", ctx, suite.companyID, day).Return(existing, nil).Once()

	period, err := suite.service.ResolvePeriod(ctx, suite.companyID, date, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing.PeriodID, period.PeriodID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestResolvePeriod_CreatesOneDayPeriod() {
	ctx := context.Background()
	date := time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC)
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("FindPeriodContaining", ctx, suite.companyID, day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SavePeriod", ctx, mock.MatchedBy(func(p domain.AccountingPeriod) bool {
		return p.CompanyID == suite.companyID && p.StartDate.Equal(day) && p.EndDate.Equal(day) && !p.IsClosed
	})).Return(nil).Once()

	period, err := suite.service.ResolvePeriod(ctx, suite.companyID, date, suite.userID)

	suite.Require().NoError(err)
	suite.True(period.StartDate.Equal(day))
	suite.True(period.EndDate.Equal(day))
	suite.Equal(suite.userID, period.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestResolvePeriod_ConcurrentCreateUsesWinner() {
	ctx := context.Background()
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	winner := &domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		CompanyID: suite.companyID,
		StartDate: day,
		EndDate:   day,
	}

	suite.mockRepo.On("FindPeriodContaining", ctx, suite.companyID, day).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SavePeriod", ctx, mock.AnythingOfType("domain.AccountingPeriod")).Return(apperrors.ErrDuplicate).Once()
	suite.mockRepo.On("FindPeriodContaining", ctx, suite.companyID, day).Return(winner, nil).Once()

	period, err := suite.service.ResolvePeriod(ctx, suite.companyID, day, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(winner.PeriodID, period.PeriodID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestResolvePeriod_LookupErrorSurfaces() {
	ctx := context.Background()
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	repoErr := errors.New("connection reset")

	suite.mockRepo.On("FindPeriodContaining", ctx, suite.companyID, day).Return(nil, repoErr).Once()

	_, err := suite.service.ResolvePeriod(ctx, suite.companyID, day, suite.userID)

	suite.ErrorIs(err, repoErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
