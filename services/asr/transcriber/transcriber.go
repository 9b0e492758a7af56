package transcriber

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	config "github.com/xilidan/voicestock/config/asr"
	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/asr/consts"
	"github.com/xilidan/voicestock/services/asr/entity"
	"github.com/xilidan/voicestock/services/asr/ingest"
)

// Client sends stored audio to the OpenAI transcription endpoint. It never
// retries; every call is bounded by the configured timeout.
type Client struct {
	client   *openai.Client
	model    string
	language string
	timeout  time.Duration
}

func New(cfg *config.TranscriptionConfig) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{}

	model := cfg.Model
	if model == "" {
		model = consts.DefaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultTranscribeTimeout
	}

	return &Client{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		language: cfg.Language,
		timeout:  timeout,
	}
}

func (c *Client) Transcribe(ctx context.Context, h *ingest.Handle) (string, error) {
	log := logger.FromContext(ctx)

	audio, err := h.Open()
	if err != nil {
		return "", err
	}
	defer audio.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Debug("sending audio to provider",
		slog.String("file", h.Filename),
		slog.String("model", c.model),
		slog.Int64("size", h.Size))

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: h.Filename,
		Reader:   audio,
		Language: c.language,
	})
	if err != nil {
		terr := classify(ctx, err)
		log.Error("provider call failed",
			slog.Int("status_code", terr.StatusCode),
			slog.String("payload", terr.Payload),
			slog.Bool("timeout", terr.Timeout),
			slog.String("error", err.Error()))
		return "", terr
	}

	return resp.Text, nil
}

func classify(ctx context.Context, err error) *entity.TranscriptionError {
	terr := &entity.TranscriptionError{Err: err}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		terr.Timeout = true
		return terr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		terr.StatusCode = apiErr.HTTPStatusCode
		terr.Payload = apiErr.Message
		return terr
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		terr.StatusCode = reqErr.HTTPStatusCode
	}
	return terr
}
