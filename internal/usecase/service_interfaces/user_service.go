package service_interfaces

import (
	"context"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
)

type UserService interface {
	CreateUser(ctx context.Context, req models.UserRequest) (commons.Response[models.UserResponse], error)
	GetUser(ctx context.Context, id string) (commons.Response[models.UserResponse], error)
	ListUsers(ctx context.Context, limit, offset int) (commons.Response[[]models.UserResponse], error)
	UpdateUser(ctx context.Context, id string, req models.UserRequest) (commons.Response[models.UserResponse], error)
	DeleteUser(ctx context.Context, id string) (commons.Response[models.DeleteResponse], error)
}
