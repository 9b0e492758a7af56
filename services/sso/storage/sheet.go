package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/sso/entity"
)

// sheet reads users from an export of the "users" sheet: a header row, then
// email, bcrypt hash, user id in columns A to C. The file is read on every
// lookup so edits to the sheet apply without a restart.
type sheet struct {
	path string
}

func NewSheet(path string) Storage {
	return &sheet{path: path}
}

func (s *sheet) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	log := logger.FromContext(ctx)

	f, err := os.Open(s.path)
	if err != nil {
		log.Error("failed to open users sheet", "error", err)
		return nil, fmt.Errorf("failed to open users sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	for row := 0; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Error("failed to read users sheet", "error", err)
			return nil, fmt.Errorf("failed to read users sheet: %w", err)
		}
		// Row 1 is the header.
		if row == 0 || len(record) < 3 {
			continue
		}
		if strings.TrimSpace(record[0]) == email {
			return &entity.User{
				Email:        email,
				PasswordHash: strings.TrimSpace(record[1]),
				ID:           strings.TrimSpace(record[2]),
			}, nil
		}
	}

	return nil, entity.ErrUserNotFound
}
