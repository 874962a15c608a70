package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/taskhub/taskhub-api/internal/models"
)

// UserRepository is the directory lookup surface over the relational user
// store. Account management lives in a separate service; this one only
// resolves recipients.
type UserRepository interface {
	GetUserByID(ctx context.Context, userID string) (models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (u *userRepository) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	const query = `
		SELECT id, email, name, is_active
		FROM app.users
		WHERE id = $1 AND deleted_at IS NULL`

	var user models.User
	err := u.db.QueryRowContext(ctx, query, strings.TrimSpace(userID)).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, errors.Wrap(err, "get user by id")
	}
	return user, nil
}
