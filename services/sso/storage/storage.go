package storage

import (
	"context"

	"github.com/xilidan/voicestock/services/sso/entity"
)

// Storage is the user directory. GetUserByEmail returns
// entity.ErrUserNotFound when no row matches.
type Storage interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}
