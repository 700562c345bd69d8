package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/events"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/service_interfaces"
)

// Verify that AccountService implements the service_interfaces.AccountService interface
var _ service_interfaces.AccountService = (*AccountService)(nil)

const balanceScale = 2

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	userRepo    repo_interfaces.UserRepository
	rateService service_interfaces.RateService
	notifier    events.Notifier
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	userRepo repo_interfaces.UserRepository,
	rateService service_interfaces.RateService,
	notifier events.Notifier,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		rateService: rateService,
		notifier:    notifier,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponseFrom[models.AccountResponse]("validation failed", err), err
	}

	userID := strings.TrimSpace(req.UserID)
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if commons.IsNotFound(err) {
			err = commons.NotFoundError("user not found: %s", userID)
			return commons.ErrorResponseFrom[models.AccountResponse]("User not found", err), err
		}
		logger.Error("account service create account owner lookup failed", err, logger.Fields{
			"userId": userID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)
	exists, err := s.accountRepo.ExistsByAccountNumber(ctx, accountNumber)
	if err != nil {
		logger.Error("account service create account number check failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}
	if exists {
		err := commons.ConflictError("account number %s already exists", accountNumber)
		return commons.ErrorResponseFrom[models.AccountResponse]("Account number already exists", err), err
	}

	currency, _ := domain.ParseCurrency(req.Currency)
	account := domain.Account{
		UserID:        userID,
		AccountNumber: accountNumber,
		Currency:      currency,
		Balance:       req.InitialBalance.Round(balanceScale),
		Active:        true,
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		if commons.IsConflict(err) {
			return commons.ErrorResponseFrom[models.AccountResponse]("Account number already exists", err), err
		}
		logger.Error("account service create account repository failed", err, logger.Fields{
			"userId": userID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	s.publishEvent(created, domain.EventAccountCreated, "account created")

	logger.Info("account service create account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
		"userId":        created.UserID,
	})

	return commons.SuccessResponse("account created successfully", mapAccountToResponse(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := commons.ValidationError("account id is required")
		return commons.ErrorResponseFrom[models.AccountResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if commons.IsNotFound(err) {
			err = commons.NotFoundError("account not found: %s", id)
			return commons.ErrorResponseFrom[models.AccountResponse]("Account not found", err), err
		}
		logger.Error("account service get account failed", err, logger.Fields{
			"accountId": id,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context, userID string, limit, offset int) (commons.Response[[]models.AccountResponse], error) {
	limit, offset = normalizePage(limit, offset)

	var accounts []domain.Account
	var err error
	if userID = strings.TrimSpace(userID); userID != "" {
		accounts, err = s.accountRepo.ListByUserID(ctx, userID)
	} else {
		accounts, err = s.accountRepo.List(ctx, limit, offset)
	}
	if err != nil {
		logger.Error("account service list accounts failed", err, logger.Fields{
			"userId": userID,
		})
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to fetch accounts right now"), err
	}

	resp := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, mapAccountToResponse(account))
	}

	return commons.SuccessResponse("accounts fetched successfully", resp), nil
}

// UpdateAccountBalance is the administrative balance override; the only
// account field an update may change.
func (s *AccountService) UpdateAccountBalance(ctx context.Context, id string, req models.UpdateAccountBalanceRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service update account balance request", logger.Fields{
		"accountId": id,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponseFrom[models.AccountResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.UpdateBalance(ctx, strings.TrimSpace(id), req.Balance.Round(balanceScale))
	if err != nil {
		if commons.IsNotFound(err) {
			err = commons.NotFoundError("account not found: %s", id)
			return commons.ErrorResponseFrom[models.AccountResponse]("Account not found", err), err
		}
		logger.Error("account service update account balance failed", err, logger.Fields{
			"accountId": id,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update account right now"), err
	}

	s.publishEvent(account, domain.EventAccountUpdated, "account balance updated")

	return commons.SuccessResponse("account updated successfully", mapAccountToResponse(account)), nil
}

// DeleteAccount succeeds when the account is already absent; the second
// delete of the same id is a no-op.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) (commons.Response[models.DeleteResponse], error) {
	id = strings.TrimSpace(id)
	logger.Info("account service delete account request", logger.Fields{
		"accountId": id,
	})

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if commons.IsNotFound(err) {
			logger.Info("account service delete of absent account", logger.Fields{
				"accountId": id,
			})
			return commons.SuccessResponse("account already deleted", models.DeleteResponse{ID: id, Deleted: false}), nil
		}
		logger.Error("account service delete lookup failed", err, logger.Fields{
			"accountId": id,
		})
		return commons.ErrorResponse[models.DeleteResponse]("failed to delete account", "Unable to delete account right now"), err
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		logger.Error("account service delete failed", err, logger.Fields{
			"accountId": id,
		})
		return commons.ErrorResponse[models.DeleteResponse]("failed to delete account", "Unable to delete account right now"), err
	}

	s.publishEvent(account, domain.EventAccountDeleted, "account deleted")

	return commons.SuccessResponse("account deleted successfully", models.DeleteResponse{ID: id, Deleted: true}), nil
}

func (s *AccountService) DepositFunds(ctx context.Context, id string, req models.FundsRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service deposit funds request", logger.Fields{
		"accountId": id,
		"amount":    req.Amount,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponseFrom[models.AccountResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.Deposit(ctx, strings.TrimSpace(id), req.Amount.Round(balanceScale))
	if err != nil {
		return s.mapMutationError(id, "deposit", err)
	}

	s.publishEvent(account, domain.EventBalanceChanged,
		fmt.Sprintf("deposited %s %s", req.Amount.StringFixed(balanceScale), account.Currency))

	return commons.SuccessResponse("deposit successful", mapAccountToResponse(account)), nil
}

func (s *AccountService) WithdrawFunds(ctx context.Context, id string, req models.FundsRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service withdraw funds request", logger.Fields{
		"accountId": id,
		"amount":    req.Amount,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponseFrom[models.AccountResponse]("validation failed", err), err
	}

	account, err := s.accountRepo.Withdraw(ctx, strings.TrimSpace(id), req.Amount.Round(balanceScale))
	if err != nil {
		return s.mapMutationError(id, "withdrawal", err)
	}

	s.publishEvent(account, domain.EventBalanceChanged,
		fmt.Sprintf("withdrew %s %s", req.Amount.StringFixed(balanceScale), account.Currency))

	return commons.SuccessResponse("withdrawal successful", mapAccountToResponse(account)), nil
}

// Transfer moves value between two accounts of the same owner,
// converting at the current rate. Validations fail fast in a fixed
// order; the debit and credit are applied as one atomic unit.
func (s *AccountService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("account service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service transfer validation failed", err, nil)
		return commons.ErrorResponseFrom[models.TransferResponse]("validation failed", err), err
	}

	from, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(req.FromAccountID))
	if err != nil {
		if commons.IsNotFound(err) {
			err = commons.NotFoundError("sender account not found: %s", req.FromAccountID)
			return commons.ErrorResponseFrom[models.TransferResponse]("Sender account not found", err), err
		}
		logger.Error("account service transfer sender lookup failed", err, nil)
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	to, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(req.ToAccountID))
	if err != nil {
		if commons.IsNotFound(err) {
			err = commons.NotFoundError("recipient account not found: %s", req.ToAccountID)
			return commons.ErrorResponseFrom[models.TransferResponse]("Recipient account not found", err), err
		}
		logger.Error("account service transfer recipient lookup failed", err, nil)
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	if from.ID == to.ID {
		err := commons.ValidationError("self-transfer")
		return commons.ErrorResponseFrom[models.TransferResponse]("validation failed", err), err
	}
	if from.UserID != to.UserID {
		err := commons.ValidationError("cross-owner transfer not permitted")
		return commons.ErrorResponseFrom[models.TransferResponse]("validation failed", err), err
	}
	if !from.Active || !to.Active {
		err := commons.ValidationError("inactive account")
		return commons.ErrorResponseFrom[models.TransferResponse]("validation failed", err), err
	}
	if from.Balance.LessThan(req.Amount) {
		err := commons.ErrInsufficientBalance
		return commons.ErrorResponseFrom[models.TransferResponse]("Insufficient balance", err), err
	}

	today := time.Now().UTC()
	rate, err := s.rateService.ConversionRate(ctx, from.Currency, to.Currency, today)
	if err != nil {
		logger.Error("account service transfer rate lookup failed", err, logger.Fields{
			"fromCurrency": from.Currency,
			"toCurrency":   to.Currency,
		})
		return commons.ErrorResponseFrom[models.TransferResponse]("failed to resolve conversion rate", err), err
	}

	creditAmount := req.Amount.Mul(rate).Round(balanceScale)

	if err := s.accountRepo.Transfer(ctx, from.ID, req.Amount, to.ID, creditAmount); err != nil {
		logger.Error("account service transfer posting failed", err, logger.Fields{
			"fromAccountId": from.ID,
			"toAccountId":   to.ID,
		})
		return commons.ErrorResponseFrom[models.TransferResponse]("transfer failed", err), err
	}

	from.Balance = from.Balance.Sub(req.Amount)
	to.Balance = to.Balance.Add(creditAmount)

	s.publishEvent(from, domain.EventTransferCompleted,
		fmt.Sprintf("transferred %s %s to account %s", req.Amount.StringFixed(balanceScale), from.Currency, to.ID))
	s.publishEvent(to, domain.EventBalanceChanged,
		fmt.Sprintf("received %s %s", creditAmount.StringFixed(balanceScale), to.Currency))

	logger.Info("account service transfer success", logger.Fields{
		"fromAccountId": from.ID,
		"toAccountId":   to.ID,
		"debitAmount":   req.Amount,
		"creditAmount":  creditAmount,
		"rate":          rate,
	})

	response := models.TransferResponse{
		FromAccountID:  from.ID,
		ToAccountID:    to.ID,
		DebitAmount:    req.Amount,
		DebitCurrency:  string(from.Currency),
		CreditAmount:   creditAmount,
		CreditCurrency: string(to.Currency),
		Rate:           rate,
	}

	return commons.SuccessResponse("transfer completed successfully", response), nil
}

func (s *AccountService) mapMutationError(id string, operation string, err error) (commons.Response[models.AccountResponse], error) {
	if commons.IsNotFound(err) {
		err = commons.NotFoundError("account not found: %s", id)
		return commons.ErrorResponseFrom[models.AccountResponse]("Account not found", err), err
	}
	if commons.IsValidation(err) {
		message := "validation failed"
		if errors.Is(err, commons.ErrInsufficientBalance) {
			message = "Insufficient balance"
		}
		return commons.ErrorResponseFrom[models.AccountResponse](message, err), err
	}
	logger.Error("account service "+operation+" failed", err, logger.Fields{
		"accountId": id,
	})
	return commons.ErrorResponse[models.AccountResponse]("failed to process "+operation, "Unable to process "+operation+" right now"), err
}

// publishEvent delivers a post-commit event. Failures are logged and
// dropped; the committed mutation stands regardless. A fresh context is
// used so an abandoned caller cannot cancel the publish mid-flight.
func (s *AccountService) publishEvent(account domain.Account, eventType domain.EventType, message string) {
	event := domain.AccountEvent{
		ID:        uuid.NewString(),
		EventType: eventType,
		AccountID: account.ID,
		UserID:    account.UserID,
		Balance:   account.Balance,
		Currency:  account.Currency,
		Timestamp: time.Now().UTC(),
		Message:   message,
	}

	if err := s.notifier.Publish(context.Background(), event); err != nil {
		logger.Error("account service publish event failed", err, logger.Fields{
			"eventId":   event.ID,
			"eventType": event.EventType,
			"accountId": event.AccountID,
		})
	}
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:            account.ID,
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		Currency:      string(account.Currency),
		Balance:       account.Balance,
		Active:        account.Active,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
