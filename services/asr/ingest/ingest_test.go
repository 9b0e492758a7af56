package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xilidan/voicestock/pkg/gen"
	"github.com/xilidan/voicestock/services/asr/entity"
)

func TestAcceptAndRelease(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "uploads")
	in := New(dir, gen.UUID())
	ctx := context.Background()

	h, err := in.Accept(ctx, strings.NewReader("fake-audio"), "audio/webm")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if !strings.HasSuffix(h.Filename, ".webm") {
		t.Fatalf("unexpected filename %q", h.Filename)
	}
	if h.Size != int64(len("fake-audio")) || h.ContentType != "audio/webm" {
		t.Fatalf("unexpected handle %+v", h)
	}

	rc, err := h.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "fake-audio" {
		t.Fatalf("stored bytes = %q", data)
	}

	in.Release(ctx, h)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty upload dir, found %d entries", len(entries))
	}

	// Releasing twice or releasing nil is harmless.
	in.Release(ctx, h)
	in.Release(ctx, nil)
}

func TestAcceptUniqueNames(t *testing.T) {
	t.Parallel()

	in := New(t.TempDir(), gen.UUID())
	ctx := context.Background()

	a, err := in.Accept(ctx, strings.NewReader("a"), "")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	b, err := in.Accept(ctx, strings.NewReader("b"), "")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if a.Path == b.Path {
		t.Fatalf("two uploads share path %q", a.Path)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestAcceptFailureLeavesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := New(dir, gen.UUID())

	_, err := in.Accept(context.Background(), failingReader{}, "")
	if !errors.Is(err, entity.ErrIngest) {
		t.Fatalf("expected ErrIngest, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no residual file, found %d", len(entries))
	}
}

func TestAcceptUnwritableDir(t *testing.T) {
	t.Parallel()

	// A regular file where the upload directory should be.
	parent := t.TempDir()
	blocker := filepath.Join(parent, "uploads")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	in := New(blocker, gen.UUID())
	if _, err := in.Accept(context.Background(), strings.NewReader("x"), ""); !errors.Is(err, entity.ErrIngest) {
		t.Fatalf("expected ErrIngest, got %v", err)
	}
}
