package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/sso/entity"
)

type postgres struct {
	db *sql.DB
}

// NewPostgres looks users up in a users(id, email, password_hash) table.
func NewPostgres(db *sql.DB) Storage {
	return &postgres{db: db}
}

func (s *postgres) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	log := logger.FromContext(ctx)

	user := &entity.User{Email: email}
	err := s.db.QueryRowContext(ctx,
		`SELECT id::text, password_hash FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		log.Error("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}
