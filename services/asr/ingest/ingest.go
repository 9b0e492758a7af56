package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xilidan/voicestock/pkg/gen"
	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/asr/consts"
	"github.com/xilidan/voicestock/services/asr/entity"
)

// Handle points at one ephemeral audio file. Callers must pass it to
// Ingest.Release once they are done, on every path.
type Handle struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
}

// Open returns a fresh read stream over the stored audio.
func (h *Handle) Open() (io.ReadCloser, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrIngest, h.Filename, err)
	}
	return f, nil
}

type Ingest struct {
	dir string
	gen gen.UUIDGenerator
	now func() time.Time
}

func New(dir string, g gen.UUIDGenerator) *Ingest {
	return &Ingest{
		dir: dir,
		gen: g,
		now: time.Now,
	}
}

// Accept writes the upload verbatim to a unique file in the upload area,
// creating the area if needed. On failure nothing is left behind.
func (i *Ingest) Accept(ctx context.Context, r io.Reader, contentType string) (*Handle, error) {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", entity.ErrIngest, err)
	}

	name := i.gen.Filename(i.now(), consts.AudioExt)
	path := filepath.Join(i.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", entity.ErrIngest, name, err)
	}

	size, err := io.Copy(f, r)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		log.Error("failed to store upload", slog.String("file", name), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: write %s: %v", entity.ErrIngest, name, err)
	}

	log.Debug("upload stored", slog.String("file", name), slog.Int64("size", size))
	return &Handle{
		Path:        path,
		Filename:    name,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Release deletes the file behind h. It is safe to call with nil.
func (i *Ingest) Release(ctx context.Context, h *Handle) {
	if h == nil {
		return
	}
	if err := os.Remove(h.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Warn("failed to remove upload",
			slog.String("file", h.Filename),
			slog.String("error", err.Error()))
	}
}
