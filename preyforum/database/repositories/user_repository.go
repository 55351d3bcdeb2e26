package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/preyforum/preyforum/preyforum/progression"
	"github.com/uptrace/bun"
)

// UserRepository is the persistence surface for users. It also implements
// progression.Ledger and progression.ProfileStore, which is how the engine
// reaches balances and roles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUID(ctx context.Context, preyUID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, preyUID string, username, avatarURL, signature string) error
	IncrementPostCount(ctx context.Context, preyUID string) error
	GetTopUsers(ctx context.Context, limit int) ([]*models.User, error)

	Balance(ctx context.Context, userID string) (int64, error)
	Increment(ctx context.Context, userID string, amount int64) (int64, error)
	Role(ctx context.Context, userID string) (progression.Role, error)
	SetRole(ctx context.Context, userID string, role progression.Role) error
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Role == "" {
		user.Role = string(progression.RoleNewUser)
	}
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) GetByUID(ctx context.Context, preyUID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("prey_uid = ?", preyUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Warn("User not found in database",
				slog.String("type", "db"),
				slog.String("operation", "GetByUID"),
				slog.String("prey_uid", preyUID))
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}

func (r *userRepository) UpdateProfile(ctx context.Context, preyUID string, username, avatarURL, signature string) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("username = ?", username).
		Set("avatar_url = ?", avatarURL).
		Set("signature = ?", signature).
		Set("updated_at = ?", time.Now()).
		Where("prey_uid = ?", preyUID).
		Exec(ctx)
	return err
}

func (r *userRepository) IncrementPostCount(ctx context.Context, preyUID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("post_count = post_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("prey_uid = ?", preyUID).
		Exec(ctx)
	return err
}

func (r *userRepository) GetTopUsers(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Order("balance DESC").
		Limit(limit).
		Scan(ctx)
	return users, err
}

// Balance implements progression.Ledger. Unknown users read as 0.
func (r *userRepository) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Column("balance").
		Where("prey_uid = ?", userID).
		Scan(ctx, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Increment implements progression.Ledger. Credits upsert the user row so a
// first-ever award works; debits are conditional in SQL so a concurrent race
// can never take the balance below zero.
func (r *userRepository) Increment(ctx context.Context, userID string, amount int64) (int64, error) {
	var balance int64

	if amount >= 0 {
		err := r.db.NewRaw(
			`INSERT INTO users (prey_uid, username, role, balance, created_at, updated_at)
			 VALUES (?, ?, ?, ?, now(), now())
			 ON CONFLICT (prey_uid) DO UPDATE
			 SET balance = users.balance + EXCLUDED.balance, updated_at = now()
			 RETURNING balance`,
			userID, userID, string(progression.RoleNewUser), amount,
		).Scan(ctx, &balance)
		if err != nil {
			return 0, fmt.Errorf("failed to credit balance: %w", err)
		}
		return balance, nil
	}

	err := r.db.NewRaw(
		`UPDATE users
		 SET balance = balance + ?, updated_at = now()
		 WHERE prey_uid = ? AND balance + ? >= 0
		 RETURNING balance`,
		amount, userID, amount,
	).Scan(ctx, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the user does not exist (balance 0) or the guard refused the
		// debit; both are the same condition for the caller.
		return 0, progression.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit balance: %w", err)
	}
	return balance, nil
}

// Role implements progression.ProfileStore. Unknown users are NewUser.
func (r *userRepository) Role(ctx context.Context, userID string) (progression.Role, error) {
	var role string
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Column("role").
		Where("prey_uid = ?", userID).
		Scan(ctx, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return progression.RoleNewUser, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return progression.Role(role), nil
}

// SetRole implements progression.ProfileStore.
func (r *userRepository) SetRole(ctx context.Context, userID string, role progression.Role) error {
	_, err := r.db.NewRaw(
		`INSERT INTO users (prey_uid, username, role, created_at, updated_at)
		 VALUES (?, ?, ?, now(), now())
		 ON CONFLICT (prey_uid) DO UPDATE
		 SET role = EXCLUDED.role, updated_at = now()`,
		userID, userID, string(role),
	).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}
