package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/xilidan/voicestock/pkg/logger"
	"github.com/xilidan/voicestock/services/sso/entity"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// UsersRange holds email, bcrypt hash and user id, below the header row.
const UsersRange = "users!A2:C"

// sheetsDirectory looks users up live in a Google spreadsheet, so edits to
// the sheet apply on the next login.
type sheetsDirectory struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewSheets opens the Sheets API with the given client options, typically
// option.WithCredentialsFile for a service account key.
func NewSheets(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (Storage, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &sheetsDirectory{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (s *sheetsDirectory) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	log := logger.FromContext(ctx)

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, UsersRange).Context(ctx).Do()
	if err != nil {
		log.Error("failed to read users sheet", "error", err)
		return nil, fmt.Errorf("failed to read users sheet: %w", err)
	}

	for _, row := range resp.Values {
		if len(row) < 3 {
			continue
		}
		if cell(row[0]) == email {
			return &entity.User{
				Email:        email,
				PasswordHash: cell(row[1]),
				ID:           cell(row[2]),
			}, nil
		}
	}

	return nil, entity.ErrUserNotFound
}

func cell(v any) string {
	return strings.TrimSpace(fmt.Sprint(v))
}
