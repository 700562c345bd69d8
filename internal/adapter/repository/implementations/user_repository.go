package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"email": user.Email,
	})

	const query = `
INSERT INTO users (
	email,
	firstname,
	surname,
	middlename
) VALUES ($1, $2, $3, $4)
RETURNING id, registered_at`

	var id string
	var registeredAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.FirstName,
		user.Surname,
		user.MiddleName,
	).Scan(&id, &registeredAt); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, commons.ConflictError("user with email %s already exists", user.Email)
		}
		logger.Error("user repository create failed", err, logger.Fields{
			"email": user.Email,
		})
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	user.ID = id
	user.RegisteredAt = registeredAt
	logger.Info("user repository create success", logger.Fields{
		"userId": user.ID,
	})

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
SELECT id, email, firstname, surname, middlename, registered_at
FROM users
WHERE id = $1`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.Surname,
		&user.MiddleName,
		&user.RegisteredAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("user repository record not found", logger.Fields{
				"userId": id,
			})
			return domain.User{}, commons.ErrRecordNotFound
		}
		logger.Error("user repository get failed", err, logger.Fields{
			"userId": id,
		})
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = `
SELECT id, email, firstname, surname, middlename, registered_at
FROM users
ORDER BY registered_at DESC, id
LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		logger.Error("user repository list failed", err, nil)
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FirstName,
			&user.Surname,
			&user.MiddleName,
			&user.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository update", logger.Fields{
		"userId": user.ID,
	})

	const query = `
UPDATE users
SET email = $2,
    firstname = $3,
    surname = $4,
    middlename = $5
WHERE id = $1
RETURNING registered_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.FirstName,
		user.Surname,
		user.MiddleName,
	).Scan(&user.RegisteredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, commons.ErrRecordNotFound
		}
		if isUniqueViolation(err) {
			return domain.User{}, commons.ConflictError("user with email %s already exists", user.Email)
		}
		logger.Error("user repository update failed", err, logger.Fields{
			"userId": user.ID,
		})
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// Delete is a no-op when the user is already absent.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		logger.Error("user repository delete failed", err, logger.Fields{
			"userId": id,
		})
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}
