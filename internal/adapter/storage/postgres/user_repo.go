package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeff007ali/lendledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, name, username, password, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Name, u.Username, u.Password, u.Balance, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by its UUID (without locking).
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, name, username, password, balance, created_at, updated_at
		FROM users WHERE id = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Username, &u.Password, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByCredentials fetches a user matching the given username and password.
// Returns (nil, nil) when no user matches.
func (r *UserRepo) GetByCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	query := `SELECT id, name, username, password, balance, created_at, updated_at
		FROM users WHERE username = $1 AND password = $2`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, username, password).Scan(
		&u.ID, &u.Name, &u.Username, &u.Password, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by credentials: %w", err)
	}
	return u, nil
}

// GetByIDForUpdate fetches a user by its UUID with pessimistic locking.
// This MUST be called within a transaction.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, name, username, password, balance, created_at, updated_at
		FROM users WHERE id = $1 FOR UPDATE`

	u := &domain.User{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Username, &u.Password, &u.Balance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id for update: %w", err)
	}
	return u, nil
}

// UpdateBalance sets a user's balance inside an existing transaction.
func (r *UserRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance float64) error {
	query := `UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update user balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user balance: user %s not found", id)
	}
	return nil
}
