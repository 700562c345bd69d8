package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/services"
)

func TestUserServiceCreateUserValidationError(t *testing.T) {
	svc := services.NewUserService(nil)

	_, err := svc.CreateUser(context.Background(), models.UserRequest{})
	if err == nil || !commons.IsValidation(err) {
		t.Fatalf("expected validation error for empty request, got %v", err)
	}
	details := commons.DetailsOf(err)
	if details["email"] == "" || details["firstname"] == "" || details["surname"] == "" {
		t.Fatalf("expected field details for empty request, got %v", details)
	}
}

func TestUserServiceCreateUserNormalizesEmail(t *testing.T) {
	var got domain.User
	svc := services.NewUserService(userRepoStub{
		createFn: func(_ context.Context, user domain.User) (domain.User, error) {
			got = user
			got.ID = "user-1"
			return got, nil
		},
	})

	resp, err := svc.CreateUser(context.Background(), models.UserRequest{
		Email:     "  Ivan.Petrov@Example.COM ",
		Firstname: "Ivan",
		Surname:   "Petrov",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.Email != "ivan.petrov@example.com" {
		t.Fatalf("expected normalized email, got %q", got.Email)
	}
	if resp.Data == nil || resp.Data.ID != "user-1" {
		t.Fatal("expected created user in response")
	}
}

func TestUserServiceCreateUserDuplicateEmail(t *testing.T) {
	svc := services.NewUserService(userRepoStub{
		createFn: func(context.Context, domain.User) (domain.User, error) {
			return domain.User{}, commons.ConflictError("email already registered")
		},
	})

	_, err := svc.CreateUser(context.Background(), models.UserRequest{
		Email:     "ivan@example.com",
		Firstname: "Ivan",
		Surname:   "Petrov",
	})
	if err == nil || !commons.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUserServiceGetUserNotFound(t *testing.T) {
	svc := services.NewUserService(userRepoStub{})

	_, err := svc.GetUser(context.Background(), "user-missing")
	if err == nil || !commons.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUserServiceDeleteUserIdempotent(t *testing.T) {
	svc := services.NewUserService(userRepoStub{})

	resp, err := svc.DeleteUser(context.Background(), "user-missing")
	if err != nil {
		t.Fatalf("expected delete of absent user to succeed, got %v", err)
	}
	if !resp.Success || resp.Data == nil || resp.Data.Deleted {
		t.Fatal("expected success with deleted=false for absent user")
	}
}
