package usecase

import (
	"context"
	"fmt"

	config "github.com/xilidan/voicestock/config/sso"
	"github.com/xilidan/voicestock/pkg/jwt"
	"github.com/xilidan/voicestock/services/sso/entity"
	"github.com/xilidan/voicestock/services/sso/storage"
	"golang.org/x/crypto/bcrypt"
)

type usecase struct {
	cfg     *config.Config
	Storage storage.Storage
}

type Usecase interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
}

func New(cfg *config.Config, storage storage.Storage) Usecase {
	return &usecase{
		cfg:     cfg,
		Storage: storage,
	}
}

func (u *usecase) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	user, err := u.Storage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidPassword, err)
	}

	token, err := jwt.Generate(ctx, user.ID, user.Email, u.cfg.JWTSecret, u.cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	return &entity.LoginResponse{
		Token:  token,
		UserID: user.ID,
	}, nil
}
