package transcriber

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	config "github.com/xilidan/voicestock/config/asr"
	"github.com/xilidan/voicestock/pkg/gen"
	"github.com/xilidan/voicestock/services/asr/consts"
	"github.com/xilidan/voicestock/services/asr/entity"
	"github.com/xilidan/voicestock/services/asr/ingest"
)

func newHandle(t *testing.T, data string) *ingest.Handle {
	t.Helper()

	in := ingest.New(t.TempDir(), gen.UUID())
	h, err := in.Accept(context.Background(), strings.NewReader(data), "audio/webm")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	t.Cleanup(func() { in.Release(context.Background(), h) })
	return h
}

func newClient(url string, timeout time.Duration) *Client {
	return New(&config.TranscriptionConfig{
		APIKey:  "test-key",
		BaseURL: url + "/v1",
		Model:   "whisper-1",
		Timeout: timeout,
	})
}

func TestTranscribe(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("unexpected model %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			data, _ := io.ReadAll(file)
			if string(data) != "fake-audio-bytes" {
				t.Errorf("unexpected file data %q", data)
			}
			if !strings.HasSuffix(header.Filename, ".webm") {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"りんご3個、バナナ12個"}`))
	}))
	defer server.Close()

	text, err := newClient(server.URL, 5*time.Second).Transcribe(context.Background(), newHandle(t, "fake-audio-bytes"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "りんご3個、バナナ12個" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTranscribeProviderError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL, 5*time.Second).Transcribe(context.Background(), newHandle(t, "x"))
	if !errors.Is(err, entity.ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
	var terr *entity.TranscriptionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TranscriptionError, got %T", err)
	}
	if terr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", terr.StatusCode)
	}
	if terr.Payload != "Incorrect API key provided" {
		t.Fatalf("unexpected payload %q", terr.Payload)
	}
	if terr.Timeout {
		t.Fatal("provider error must not be reported as timeout")
	}
}

func TestTranscribeMalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newClient(server.URL, 5*time.Second).Transcribe(context.Background(), newHandle(t, "x"))
	if !errors.Is(err, entity.ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := newClient(server.URL, 50*time.Millisecond).Transcribe(context.Background(), newHandle(t, "x"))
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("timeout not honored, call took %v", elapsed)
	}

	var terr *entity.TranscriptionError
	if !errors.As(err, &terr) || !terr.Timeout {
		t.Fatalf("expected timeout TranscriptionError, got %v", err)
	}
}

func TestNewFallsBackToDefaultTimeout(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -time.Second} {
		c := newClient("http://127.0.0.1:0", timeout)
		if c.timeout != consts.DefaultTranscribeTimeout {
			t.Fatalf("timeout %v: got %v, want %v", timeout, c.timeout, consts.DefaultTranscribeTimeout)
		}
	}
	if c := newClient("http://127.0.0.1:0", time.Second); c.timeout != time.Second {
		t.Fatalf("configured timeout overridden: %v", c.timeout)
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	t.Parallel()

	h := &ingest.Handle{Path: "/nonexistent/audio.webm", Filename: "audio.webm"}
	_, err := newClient("http://127.0.0.1:0", time.Second).Transcribe(context.Background(), h)
	if !errors.Is(err, entity.ErrIngest) {
		t.Fatalf("expected ErrIngest, got %v", err)
	}
}
