package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/asr/consts"
	"github.com/xilidan/voicestock/services/asr/entity"
)

// Storage persists item lists as immutable, timestamp-named records.
type Storage interface {
	SaveRecord(ctx context.Context, items []entity.Item) (string, error)
	ListRecords(ctx context.Context) ([]string, error)
	LoadRecord(ctx context.Context, filename string) ([]entity.Item, error)
}

var (
	timeSeparators = strings.NewReplacer(":", "-", ".", "-")

	// Names produced by recordName, with an optional collision suffix.
	recordNameRe = regexp.MustCompile(`^saved-\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}-\d{3}Z(_\d{2,})?\.json$`)
)

type storage struct {
	blob Blob
	now  func() time.Time
}

func New(blob Blob) Storage {
	return &storage{
		blob: blob,
		now:  time.Now,
	}
}

func (s *storage) SaveRecord(ctx context.Context, items []entity.Item) (string, error) {
	log := logger.FromContext(ctx)

	if len(items) == 0 {
		return "", fmt.Errorf("%w: items must be a non-empty list", entity.ErrValidation)
	}
	for i, it := range items {
		if it.Quantity < 0 {
			return "", fmt.Errorf("%w: item %d has negative quantity %d", entity.ErrValidation, i, it.Quantity)
		}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode items: %v", entity.ErrStorage, err)
	}

	stamp := s.now()
	for attempt := 0; attempt < consts.MaxSaveAttempts; attempt++ {
		name := recordName(stamp, attempt)

		err := s.blob.Put(ctx, name, data)
		if errors.Is(err, ErrExists) {
			log.Debug("record name taken, retrying", slog.String("filename", name))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", entity.ErrStorage, err)
		}

		log.Info("record saved", slog.String("filename", name), slog.Int("items", len(items)))
		return name, nil
	}

	return "", fmt.Errorf("%w: no free record name for %s", entity.ErrStorage, stamp.UTC().Format(consts.RecordTimeLayout))
}

// ListRecords returns record names newest first. Keys that LoadRecord would
// refuse are left out.
func (s *storage) ListRecords(ctx context.Context) ([]string, error) {
	keys, err := s.blob.List(ctx, consts.RecordPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStorage, err)
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if ValidRecordName(k) {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	slices.Reverse(names)
	return names, nil
}

// LoadRecord only accepts names shaped like the ones SaveRecord returns;
// anything else, including path traversal attempts, is reported as not
// found without touching the store.
func (s *storage) LoadRecord(ctx context.Context, filename string) ([]entity.Item, error) {
	if !ValidRecordName(filename) {
		return nil, fmt.Errorf("%w: %q", entity.ErrNotFound, filename)
	}

	data, err := s.blob.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", entity.ErrNotFound, filename)
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrStorage, err)
	}

	var items []entity.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entity.ErrStorage, filename, err)
	}
	if items == nil {
		items = []entity.Item{}
	}
	return items, nil
}

func ValidRecordName(name string) bool {
	return recordNameRe.MatchString(name)
}

// recordName renders saved-2024-05-01T09-30-00-123Z.json; attempt > 0 adds
// _NN, which sorts after the bare name so newest-first order holds.
func recordName(t time.Time, attempt int) string {
	name := consts.RecordPrefix + timeSeparators.Replace(t.UTC().Format(consts.RecordTimeLayout))
	if attempt > 0 {
		name += fmt.Sprintf("_%02d", attempt)
	}
	return name + consts.RecordExt
}
