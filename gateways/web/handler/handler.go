package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xilidan/voicestock/pkg/json"
	asr "github.com/xilidan/voicestock/services/asr/usecase"
	sso "github.com/xilidan/voicestock/services/sso/usecase"
)

type Handler struct {
	asr asr.Usecase
	sso sso.Usecase
}

func New(asr asr.Usecase, sso sso.Usecase) *Handler {
	return &Handler{
		asr: asr,
		sso: sso,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Post("/transcribe", h.Transcribe)
	r.Post("/save", h.Save)
	r.Get("/history", h.History)
	r.Get("/load/{filename}", h.Load)

	r.Post("/login", h.Login)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	json.WriteJSON(w, http.StatusOK, map[string]bool{"status": true})
}
