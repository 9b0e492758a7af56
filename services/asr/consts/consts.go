package consts

import "time"

const (
	// Uploaded audio is stored as webm, the container the recorder emits
	// and the provider accepts.
	AudioExt = ".webm"

	// MaxAudioSize is the provider's upload limit.
	MaxAudioSize = 25 * 1024 * 1024 // 25MB

	DefaultModel = "whisper-1"

	// DefaultTranscribeTimeout bounds a provider call when no positive
	// timeout is configured.
	DefaultTranscribeTimeout = 60 * time.Second

	// Saved record naming: saved-<timestamp>.json
	RecordPrefix = "saved-"
	RecordExt    = ".json"

	// Millisecond UTC timestamp; ':' and '.' become '-' in filenames.
	RecordTimeLayout = "2006-01-02T15:04:05.000Z"

	// MaxSaveAttempts bounds the _NN suffixes tried when a name is taken.
	MaxSaveAttempts = 100
)
