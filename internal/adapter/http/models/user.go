package models

import (
	"strings"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
)

type UserRequest struct {
	Email      string  `json:"email"`
	Firstname  string  `json:"firstname"`
	Surname    string  `json:"surname"`
	Middlename *string `json:"middlename,omitempty"`
}

func (r UserRequest) Validate() error {
	details := map[string]string{}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		details["email"] = "email is required"
	} else if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		details["email"] = "email is not valid"
	}
	if strings.TrimSpace(r.Firstname) == "" {
		details["firstname"] = "firstname is required"
	}
	if strings.TrimSpace(r.Surname) == "" {
		details["surname"] = "surname is required"
	}

	if len(details) > 0 {
		return commons.ValidationErrorWithDetails("validation failed", details)
	}
	return nil
}

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Firstname    string  `json:"firstname"`
	Surname      string  `json:"surname"`
	Middlename   *string `json:"middlename,omitempty"`
	RegisteredAt string  `json:"registeredAt"`
}
