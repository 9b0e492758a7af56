package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xilidan/voicestock/pkg/gen"
	"github.com/xilidan/voicestock/services/asr/entity"
	"github.com/xilidan/voicestock/services/asr/ingest"
	"github.com/xilidan/voicestock/services/asr/storage"
)

type fakeTranscriber struct {
	text string
	err  error
	// seen records the audio bytes the transcriber read.
	seen string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, h *ingest.Handle) (string, error) {
	rc, err := h.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	f.seen = string(data)
	return f.text, f.err
}

func newUsecase(t *testing.T, tr Transcriber) (Usecase, string) {
	t.Helper()

	root := t.TempDir()
	uploads := filepath.Join(root, "uploads")
	uc := New(
		ingest.New(uploads, gen.UUID()),
		tr,
		storage.New(storage.NewFS(filepath.Join(root, "data"))),
	)
	return uc, uploads
}

func assertNoUploads(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no residual uploads, found %d", len(entries))
	}
}

func TestTranscribeAudio(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{text: "りんご3個、バナナ12個"}
	uc, uploads := newUsecase(t, tr)

	resp, err := uc.TranscribeAudio(context.Background(), &entity.TranscribeAudioRequest{
		Audio:       strings.NewReader("fake-audio"),
		ContentType: "audio/webm",
	})
	if err != nil {
		t.Fatalf("TranscribeAudio: %v", err)
	}

	if tr.seen != "fake-audio" {
		t.Fatalf("transcriber saw %q", tr.seen)
	}
	if resp.Text != tr.text {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	want := []entity.Item{{Item: "りんご", Quantity: 3}, {Item: "バナナ", Quantity: 12}}
	if diff := cmp.Diff(want, resp.Parsed); diff != "" {
		t.Fatalf("parsed mismatch (-want +got):\n%s", diff)
	}
	assertNoUploads(t, uploads)
}

func TestTranscribeAudioProviderFailureReleasesUpload(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{err: &entity.TranscriptionError{StatusCode: 500, Payload: "server_error"}}
	uc, uploads := newUsecase(t, tr)

	_, err := uc.TranscribeAudio(context.Background(), &entity.TranscribeAudioRequest{
		Audio: strings.NewReader("fake-audio"),
	})
	if !errors.Is(err, entity.ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
	assertNoUploads(t, uploads)
}

func TestTranscribeAudioRequiresAudio(t *testing.T) {
	t.Parallel()

	uc, _ := newUsecase(t, &fakeTranscriber{})
	if _, err := uc.TranscribeAudio(context.Background(), &entity.TranscribeAudioRequest{}); !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSaveListLoad(t *testing.T) {
	t.Parallel()

	uc, _ := newUsecase(t, &fakeTranscriber{})
	ctx := context.Background()

	names, err := uc.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty history, got %v", names)
	}

	items := []entity.Item{{Item: "牛乳", Quantity: 2}}
	saved, err := uc.SaveRecord(ctx, &entity.SaveRecordRequest{Items: items})
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	names, err = uc.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if diff := cmp.Diff([]string{saved.Filename}, names); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	loaded, err := uc.LoadRecord(ctx, &entity.LoadRecordRequest{Filename: saved.Filename})
	if err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}
	if diff := cmp.Diff(items, loaded.Items); diff != "" {
		t.Fatalf("loaded mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRecordValidation(t *testing.T) {
	t.Parallel()

	uc, _ := newUsecase(t, &fakeTranscriber{})
	for _, req := range []*entity.SaveRecordRequest{nil, {}, {Items: []entity.Item{}}} {
		if _, err := uc.SaveRecord(context.Background(), req); !errors.Is(err, entity.ErrValidation) {
			t.Fatalf("SaveRecord(%+v): expected ErrValidation, got %v", req, err)
		}
	}
}

func TestLoadRecordNotFound(t *testing.T) {
	t.Parallel()

	uc, _ := newUsecase(t, &fakeTranscriber{})
	_, err := uc.LoadRecord(context.Background(), &entity.LoadRecordRequest{Filename: "nonexistent.json"})
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
