package domain

import "time"

type User struct {
	ID           string
	Email        string
	FirstName    string
	Surname      string
	MiddleName   *string
	RegisteredAt time.Time
}
