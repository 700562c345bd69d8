package services

import (
	"context"
	"strings"
	"time"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/service_interfaces"
)

// Verify that UserService implements the service_interfaces.UserService interface
var _ service_interfaces.UserService = (*UserService)(nil)

type UserService struct {
	userRepo repo_interfaces.UserRepository
}

func NewUserService(userRepo repo_interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, req models.UserRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service create user request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service create user validation failed", err, nil)
		return commons.ErrorResponseFrom[models.UserResponse]("validation failed", err), err
	}

	user := domain.User{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:  strings.TrimSpace(req.Firstname),
		Surname:    strings.TrimSpace(req.Surname),
		MiddleName: req.Middlename,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if commons.IsConflict(err) {
			return commons.ErrorResponseFrom[models.UserResponse]("Email already registered", err), err
		}
		logger.Error("user service create user repository failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), err
	}

	logger.Info("user service create user success", logger.Fields{
		"userId": created.ID,
	})

	return commons.SuccessResponse("user created successfully", mapUserToResponse(created)), nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (commons.Response[models.UserResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := commons.ValidationError("user id is required")
		return commons.ErrorResponseFrom[models.UserResponse]("validation failed", err), err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if commons.IsNotFound(err) {
			err = commons.NotFoundError("user not found: %s", id)
			return commons.ErrorResponseFrom[models.UserResponse]("User not found", err), err
		}
		logger.Error("user service get user failed", err, logger.Fields{
			"userId": id,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to get user", "Unable to fetch user right now"), err
	}

	return commons.SuccessResponse("user fetched successfully", mapUserToResponse(user)), nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) (commons.Response[[]models.UserResponse], error) {
	limit, offset = normalizePage(limit, offset)

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		logger.Error("user service list users failed", err, nil)
		return commons.ErrorResponse[[]models.UserResponse]("failed to list users", "Unable to fetch users right now"), err
	}

	resp := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, mapUserToResponse(user))
	}

	return commons.SuccessResponse("users fetched successfully", resp), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, req models.UserRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service update user request", logger.Fields{
		"userId":  id,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponseFrom[models.UserResponse]("validation failed", err), err
	}

	user := domain.User{
		ID:         strings.TrimSpace(id),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:  strings.TrimSpace(req.Firstname),
		Surname:    strings.TrimSpace(req.Surname),
		MiddleName: req.Middlename,
	}

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		if commons.IsNotFound(err) {
			err = commons.NotFoundError("user not found: %s", id)
			return commons.ErrorResponseFrom[models.UserResponse]("User not found", err), err
		}
		if commons.IsConflict(err) {
			return commons.ErrorResponseFrom[models.UserResponse]("Email already registered", err), err
		}
		logger.Error("user service update user failed", err, logger.Fields{
			"userId": id,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to update user", "Unable to update user right now"), err
	}

	return commons.SuccessResponse("user updated successfully", mapUserToResponse(updated)), nil
}

// DeleteUser succeeds when the user is already absent.
func (s *UserService) DeleteUser(ctx context.Context, id string) (commons.Response[models.DeleteResponse], error) {
	id = strings.TrimSpace(id)
	logger.Info("user service delete user request", logger.Fields{
		"userId": id,
	})

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if commons.IsNotFound(err) {
			return commons.SuccessResponse("user already deleted", models.DeleteResponse{ID: id, Deleted: false}), nil
		}
		logger.Error("user service delete lookup failed", err, logger.Fields{
			"userId": id,
		})
		return commons.ErrorResponse[models.DeleteResponse]("failed to delete user", "Unable to delete user right now"), err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("user service delete failed", err, logger.Fields{
			"userId": id,
		})
		return commons.ErrorResponse[models.DeleteResponse]("failed to delete user", "Unable to delete user right now"), err
	}

	return commons.SuccessResponse("user deleted successfully", models.DeleteResponse{ID: id, Deleted: true}), nil
}

func mapUserToResponse(user domain.User) models.UserResponse {
	return models.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Firstname:    user.FirstName,
		Surname:      user.Surname,
		Middlename:   user.MiddleName,
		RegisteredAt: user.RegisteredAt.Format(time.RFC3339),
	}
}
