package entity

import "io"

// Item is one (item, quantity) pair, either extracted from a transcript or
// supplied by the caller on save.
type Item struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type TranscribeAudioRequest struct {
	Audio       io.Reader
	ContentType string
}

type TranscribeAudioResponse struct {
	Text   string
	Parsed []Item
}

type SaveRecordRequest struct {
	Items []Item
}

type SaveRecordResponse struct {
	Filename string
}

type LoadRecordRequest struct {
	Filename string
}

type LoadRecordResponse struct {
	Items []Item
}
