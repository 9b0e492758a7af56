package handler

import (
	"errors"
	"net/http"

	"github.com/xilidan/voicestock/pkg/json"
	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/sso/entity"
)

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.ParseJSON(r, &req); err != nil {
		json.WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}

	res, err := h.sso.Login(r.Context(), &entity.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, entity.ErrUserNotFound):
		json.WriteError(w, http.StatusUnauthorized, "ユーザーが見つかりません")
		return
	case errors.Is(err, entity.ErrInvalidPassword):
		json.WriteError(w, http.StatusUnauthorized, "パスワードが違います")
		return
	case err != nil:
		logger.ErrorErr(r.Context(), "login failed", err)
		json.WriteError(w, http.StatusInternalServerError, "サーバーエラー")
		return
	}

	json.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:  res.Token,
		UserID: res.UserID,
	})
}
