package synth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"subspeak/internal/services"
)

func TestElevenLabsSynthesize(t *testing.T) {
	var captured elevenLabsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/text-to-speech/Rachel" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("output_format"); got != "mp3_44100_128" {
			t.Errorf("unexpected output_format %q", got)
		}
		if got := r.Header.Get("xi-api-key"); got != "secret" {
			t.Errorf("unexpected api key header %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	client := NewElevenLabsClient("secret", ElevenLabsOptions{BaseURL: server.URL + "/", Model: "eleven_default"})
	data, err := client.Synthesize(context.Background(), Request{Text: "Hello", Voice: "Rachel", Engine: "eleven_turbo_v2", Codec: "mp3"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Fatalf("unexpected body %q", data)
	}
	if captured.Text != "Hello" || captured.ModelID != "eleven_turbo_v2" {
		t.Fatalf("unexpected request body %+v", captured)
	}
}

func TestElevenLabsUsesDefaultModelAndPCMFormat(t *testing.T) {
	var (
		format string
		body   elevenLabsRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format = r.URL.Query().Get("output_format")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte{0, 0, 0, 0})
	}))
	defer server.Close()

	client := NewElevenLabsClient("k", ElevenLabsOptions{BaseURL: server.URL, Model: "eleven_multilingual_v2"})
	if _, err := client.Synthesize(context.Background(), Request{Text: "x", Voice: "v", Codec: "pcm", SampleRate: 8000}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if format != "pcm_8000" {
		t.Fatalf("unexpected output_format %q", format)
	}
	if body.ModelID != "eleven_multilingual_v2" {
		t.Fatalf("expected default model, got %q", body.ModelID)
	}
}

func TestElevenLabsErrorsAreSynthesisErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/empty") {
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer server.Close()

	client := NewElevenLabsClient("bad", ElevenLabsOptions{BaseURL: server.URL})
	_, err := client.Synthesize(context.Background(), Request{Text: "x", Voice: "v", Codec: "mp3"})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status in error, got %q", err)
	}

	_, err = client.Synthesize(context.Background(), Request{Text: "x", Voice: "empty", Codec: "mp3"})
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis for empty body, got %v", err)
	}
}

func TestElevenLabsHonoursCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewElevenLabsClient("k", ElevenLabsOptions{BaseURL: server.URL})
	_, err := client.Synthesize(ctx, Request{Text: "x", Voice: "v", Codec: "mp3"})
	if !errors.Is(err, services.ErrSynthesis) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled synthesis error, got %v", err)
	}
}
