package gen

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UUIDGenerator func() uuid.UUID

func UUID() UUIDGenerator {
	return func() uuid.UUID {
		return uuid.Must(uuid.NewRandom())
	}
}

func (g UUIDGenerator) Next() uuid.UUID {
	if g == nil {
		return uuid.Nil
	}

	return g()
}

// Filename returns "<unix millis>-<uuid><ext>". The millisecond prefix keeps
// names roughly time ordered and the uuid keeps them unique across
// concurrent requests.
func (g UUIDGenerator) Filename(now time.Time, ext string) string {
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), g.Next().String(), ext)
}
