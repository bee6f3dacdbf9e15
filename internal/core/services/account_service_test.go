package services_test

import (
	"context"
	"testing"

	"bizledger/internal/apperrors"
	"bizledger/internal/core/domain"
	portssvc "bizledger/internal/core/ports/services"
	"bizledger/internal/core/services"
	"bizledger/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockAccountRepository
	service   portssvc.AccountSvcFacade
	companyID string
	userID    string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:           "Main Checking",
		AccountType:    domain.Asset,
		OpeningBalance: decimal.NewFromInt(1000),
	}

	suite.mockRepo.On("NextCodeNumber", ctx, suite.companyID, "A").Return(1, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("A001", account.AccountCode)
	suite.Equal(domain.Asset, account.AccountType)
	suite.True(account.IsActive)
	suite.True(account.CurrentBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(account.OpeningBalance.Equal(account.CurrentBalance))
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ExpenseOpeningStoredNegative() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:           "Rent",
		AccountType:    domain.Expense,
		OpeningBalance: decimal.NewFromInt(500),
	}

	suite.mockRepo.On("NextCodeNumber", ctx, suite.companyID, "X").Return(1, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("X001", account.AccountCode)
	suite.True(account.CurrentBalance.Equal(decimal.NewFromInt(-500)),
		"expense opening balance must be stored negated, got %s", account.CurrentBalance)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CodeMonotonicAcrossSoftDeletes() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Petty Cash", AccountType: domain.Asset}

	// The repository counts soft-deleted accounts too.
	suite.mockRepo.On("NextCodeNumber", ctx, suite.companyID, "A").Return(4, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("A004", account.AccountCode)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OwnershipOnNonEquityRejected() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:                "Bad Stake",
		AccountType:         domain.Asset,
		OwnershipPercentage: decimal.NewFromInt(10),
	}

	_, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OwnershipOutOfRangeRejected() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:                "Over Stake",
		AccountType:         domain.Equity,
		OwnershipPercentage: decimal.NewFromInt(150),
	}

	_, err := suite.service.CreateAccount(ctx, suite.companyID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherCompanyObscured() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, CompanyID: uuid.NewString()}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.companyID, accountID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_TypeChangeBlockedByLines() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		CompanyID:   suite.companyID,
		AccountType: domain.Asset,
		IsActive:    true,
	}
	newType := domain.Liability

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("CountPostedLines", ctx, accountID).Return(int64(3), nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.companyID, accountID, dto.UpdateAccountRequest{AccountType: &newType}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CodeConflict() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		CompanyID:   suite.companyID,
		AccountCode: "A001",
		AccountType: domain.Asset,
	}
	taken := &domain.Account{AccountID: uuid.NewString(), CompanyID: suite.companyID, AccountCode: "A002"}
	newCode := "A002"

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("FindAccountByCode", ctx, suite.companyID, newCode).Return(taken, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.companyID, accountID, dto.UpdateAccountRequest{AccountCode: &newCode}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_MalformedCodeRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		CompanyID:   suite.companyID,
		AccountCode: "A001",
		AccountType: domain.Asset,
	}

	// A non-numeric suffix would break code generation for the prefix.
	for _, badCode := range []string{"A-OLD", "A", "L002", "A12B"} {
		suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

		code := badCode
		_, err := suite.service.UpdateAccount(ctx, suite.companyID, accountID, dto.UpdateAccountRequest{AccountCode: &code}, suite.userID)

		suite.ErrorIs(err, apperrors.ErrValidation, "code %q must be rejected", badCode)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByCode", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoOpLeavesAccountUntouched() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		CompanyID:   suite.companyID,
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.companyID, accountID, dto.UpdateAccountRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("Cash", updated.Name)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSoftDeleteAccount_BlockedByLines() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, CompanyID: suite.companyID, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("CountPostedLines", ctx, accountID).Return(int64(1), nil).Once()

	err := suite.service.SoftDeleteAccount(ctx, suite.companyID, accountID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSoftDeleteAccount_BlockedByChildren() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, CompanyID: suite.companyID, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("CountPostedLines", ctx, accountID).Return(int64(0), nil).Once()
	suite.mockRepo.On("CountChildAccounts", ctx, accountID).Return(int64(2), nil).Once()

	err := suite.service.SoftDeleteAccount(ctx, suite.companyID, accountID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestSoftDeleteAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, CompanyID: suite.companyID, IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockRepo.On("CountPostedLines", ctx, accountID).Return(int64(0), nil).Once()
	suite.mockRepo.On("CountChildAccounts", ctx, accountID).Return(int64(0), nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, accountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.SoftDeleteAccount(ctx, suite.companyID, accountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
