package service_interfaces

import (
	"context"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context, userID string, limit, offset int) (commons.Response[[]models.AccountResponse], error)
	UpdateAccountBalance(ctx context.Context, id string, req models.UpdateAccountBalanceRequest) (commons.Response[models.AccountResponse], error)
	DeleteAccount(ctx context.Context, id string) (commons.Response[models.DeleteResponse], error)
	DepositFunds(ctx context.Context, id string, req models.FundsRequest) (commons.Response[models.AccountResponse], error)
	WithdrawFunds(ctx context.Context, id string, req models.FundsRequest) (commons.Response[models.AccountResponse], error)
	Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
}
