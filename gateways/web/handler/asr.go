package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xilidan/voicestock/pkg/json"
	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/asr/consts"
	"github.com/xilidan/voicestock/services/asr/entity"
)

// Multipart framing on top of the audio itself. The body limit is only a
// coarse guard; the audio part is checked against MaxAudioSize on its own.
const multipartOverhead = 1 << 20

type (
	TranscribeResponse struct {
		Text   string        `json:"text"`
		Parsed []entity.Item `json:"parsed"`
	}

	SaveRequest struct {
		Items []entity.Item `json:"items"`
	}

	SaveResponse struct {
		Success  bool   `json:"success"`
		Filename string `json:"filename"`
	}

	LoadResponse struct {
		Parsed []entity.Item `json:"parsed"`
	}
)

func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, consts.MaxAudioSize+multipartOverhead)
	file, header, err := r.FormFile("audio")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			log.Warn("audio upload too large", slog.Int64("limit", maxErr.Limit))
			json.WriteError(w, http.StatusBadRequest, "音声ファイルが大きすぎます")
			return
		}
		log.Warn("audio field missing", slog.String("error", err.Error()))
		json.WriteError(w, http.StatusBadRequest, "音声ファイルがありません")
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	if header.Size > consts.MaxAudioSize {
		log.Warn("audio part too large", slog.Int64("size", header.Size), slog.Int64("limit", consts.MaxAudioSize))
		json.WriteError(w, http.StatusBadRequest, "音声ファイルが大きすぎます")
		return
	}

	resp, err := h.asr.TranscribeAudio(r.Context(), &entity.TranscribeAudioRequest{
		Audio:       file,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		log.Error("transcription failed", slog.String("error", err.Error()))
		json.WriteError(w, statusFor(err), "Whisper error")
		return
	}

	json.WriteJSON(w, http.StatusOK, TranscribeResponse{
		Text:   resp.Text,
		Parsed: resp.Parsed,
	})
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req SaveRequest
	if err := json.ParseJSON(r, &req); err != nil {
		log.Warn("invalid save body", slog.String("error", err.Error()))
		json.WriteError(w, http.StatusBadRequest, "保存対象がありません")
		return
	}

	resp, err := h.asr.SaveRecord(r.Context(), &entity.SaveRecordRequest{Items: req.Items})
	if err != nil {
		if errors.Is(err, entity.ErrValidation) {
			json.WriteError(w, http.StatusBadRequest, "保存対象がありません")
			return
		}
		log.Error("save failed", slog.String("error", err.Error()))
		json.WriteError(w, http.StatusInternalServerError, "保存に失敗しました")
		return
	}

	json.WriteJSON(w, http.StatusOK, SaveResponse{
		Success:  true,
		Filename: resp.Filename,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	names, err := h.asr.ListRecords(r.Context())
	if err != nil {
		logger.ErrorErr(r.Context(), "history failed", err)
		json.WriteError(w, http.StatusInternalServerError, "履歴取得に失敗しました")
		return
	}

	json.WriteJSON(w, http.StatusOK, names)
}

func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	resp, err := h.asr.LoadRecord(r.Context(), &entity.LoadRecordRequest{Filename: filename})
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			json.WriteError(w, http.StatusNotFound, "ファイルが見つかりません")
			return
		}
		logger.ErrorErr(r.Context(), "load failed", err, slog.String("filename", filename))
		json.WriteError(w, http.StatusInternalServerError, "読み込みに失敗しました")
		return
	}

	json.WriteJSON(w, http.StatusOK, LoadResponse{Parsed: resp.Items})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
