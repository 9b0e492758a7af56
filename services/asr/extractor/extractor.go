// Package extractor turns a transcript into (item, quantity) pairs.
//
// A pair is a run of non-digit text followed immediately by one to four
// ASCII digits and the counter 個, e.g. "りんご3個". Everything else in the
// transcript is ignored.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xilidan/voicestock/services/asr/entity"
)

const UnitMarker = "個"

var (
	// Item text may not contain digits or cross a line break.
	pattern = regexp.MustCompile(`([^0-9\n\r\x{2028}\x{2029}]+?)([0-9]{1,4})` + UnitMarker)

	stripGlyphs = strings.NewReplacer("、", "", "。", "", "・", "")
)

// Extract returns every pair in order of appearance. It never fails; a
// transcript without pairs yields an empty, non-nil slice.
func Extract(text string) []entity.Item {
	matches := pattern.FindAllStringSubmatch(text, -1)

	items := make([]entity.Item, 0, len(matches))
	for _, m := range matches {
		quantity, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		items = append(items, entity.Item{
			Item:     strings.TrimSpace(stripGlyphs.Replace(m[1])),
			Quantity: quantity,
		})
	}
	return items
}
