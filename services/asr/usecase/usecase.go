package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/asr/entity"
	"github.com/xilidan/voicestock/services/asr/extractor"
	"github.com/xilidan/voicestock/services/asr/ingest"
	"github.com/xilidan/voicestock/services/asr/storage"
)

type Usecase interface {
	TranscribeAudio(ctx context.Context, req *entity.TranscribeAudioRequest) (*entity.TranscribeAudioResponse, error)
	SaveRecord(ctx context.Context, req *entity.SaveRecordRequest) (*entity.SaveRecordResponse, error)
	ListRecords(ctx context.Context) ([]string, error)
	LoadRecord(ctx context.Context, req *entity.LoadRecordRequest) (*entity.LoadRecordResponse, error)
}

type Ingester interface {
	Accept(ctx context.Context, r io.Reader, contentType string) (*ingest.Handle, error)
	Release(ctx context.Context, h *ingest.Handle)
}

type Transcriber interface {
	Transcribe(ctx context.Context, h *ingest.Handle) (string, error)
}

type usecase struct {
	ingest      Ingester
	transcriber Transcriber
	storage     storage.Storage
}

func New(ingest Ingester, transcriber Transcriber, storage storage.Storage) Usecase {
	return &usecase{
		ingest:      ingest,
		transcriber: transcriber,
		storage:     storage,
	}
}

// TranscribeAudio stores the upload, transcribes it and extracts items.
// The stored upload is released on every path.
func (u *usecase) TranscribeAudio(ctx context.Context, req *entity.TranscribeAudioRequest) (*entity.TranscribeAudioResponse, error) {
	log := logger.FromContext(ctx)

	if req == nil || req.Audio == nil {
		return nil, fmt.Errorf("%w: audio is required", entity.ErrValidation)
	}

	handle, err := u.ingest.Accept(ctx, req.Audio, req.ContentType)
	if err != nil {
		return nil, err
	}
	defer u.ingest.Release(ctx, handle)

	text, err := u.transcriber.Transcribe(ctx, handle)
	if err != nil {
		return nil, err
	}
	log.Info("transcript received", slog.String("text", text))

	parsed := extractor.Extract(text)
	log.Debug("items extracted", slog.Int("count", len(parsed)))

	return &entity.TranscribeAudioResponse{
		Text:   text,
		Parsed: parsed,
	}, nil
}

func (u *usecase) SaveRecord(ctx context.Context, req *entity.SaveRecordRequest) (*entity.SaveRecordResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: items are required", entity.ErrValidation)
	}

	filename, err := u.storage.SaveRecord(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	return &entity.SaveRecordResponse{
		Filename: filename,
	}, nil
}

func (u *usecase) ListRecords(ctx context.Context) ([]string, error) {
	return u.storage.ListRecords(ctx)
}

func (u *usecase) LoadRecord(ctx context.Context, req *entity.LoadRecordRequest) (*entity.LoadRecordResponse, error) {
	items, err := u.storage.LoadRecord(ctx, req.Filename)
	if err != nil {
		return nil, err
	}

	return &entity.LoadRecordResponse{
		Items: items,
	}, nil
}
