// Package tts implements the audio synthesis adapter: script text plus
// a language code in, a single audio buffer out, bounded by a hard
// timeout. The production implementation streams from the public
// Google Translate speech endpoint.
package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/poseidon-tools/farmer/internal/request"
)

// Common errors returned by the synthesis adapter.
var (
	// ErrSynthesisFailed is returned when the underlying synthesizer
	// rejects a request or the stream breaks mid-way.
	ErrSynthesisFailed = errors.New("audio synthesis failed")

	// ErrSynthesisTimeout is returned when synthesis does not complete
	// within the configured deadline.
	ErrSynthesisTimeout = errors.New("audio synthesis timed out")

	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("synthesis text cannot be empty")
)

// maxChunkRunes bounds the text length per synthesis request; the
// speech endpoint truncates longer inputs silently.
const maxChunkRunes = 200

// Synthesizer converts script text in a given language into one audio
// payload.
// Version: 1.0
type Synthesizer interface {
	// Synthesize returns the audio bytes for the text, or an error if
	// synthesis fails or times out. Implementations must treat the
	// context deadline as a hard bound.
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
}

// Config holds the synthesis adapter settings.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// GoogleSynthesizer is the production Synthesizer backed by the public
// Google Translate speech endpoint. The endpoint is unauthenticated but
// truncates long inputs, hence the chunked requests.
type GoogleSynthesizer struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewGoogleSynthesizer creates a synthesizer with the given settings.
func NewGoogleSynthesizer(cfg Config, logger *slog.Logger) *GoogleSynthesizer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GoogleSynthesizer{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
	}
}

// remapLanguage substitutes languages the synthesizer does not support
// with the closest one it does. Marathi and Urdu fall back to Hindi;
// this is a deliberate approximation, not an error.
func remapLanguage(code string) string {
	switch code {
	case "mr", "ur":
		return "hi"
	}
	return code
}

// Synthesize fetches audio for the text, accumulating the streamed
// chunks into a single buffer. The whole operation is bounded by the
// configured timeout regardless of how many chunks the text splits
// into.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	lang := remapLanguage(languageCode)
	if lang != languageCode {
		g.logger.DebugContext(ctx, "language not supported by synthesizer, substituting",
			"requested", languageCode,
			"substituted", lang)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	chunks := splitChunks(text, maxChunkRunes)
	var buffer []byte
	for idx, chunk := range chunks {
		audio, err := g.fetchChunk(ctx, chunk, lang, idx, len(chunks))
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s", ErrSynthesisTimeout, g.cfg.Timeout)
			}
			return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
		}
		buffer = append(buffer, audio...)
	}

	return buffer, nil
}

// fetchChunk requests one audio segment.
func (g *GoogleSynthesizer) fetchChunk(ctx context.Context, text, lang string, idx, total int) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", text)
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header = request.BrowserHeaders("")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech endpoint returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// splitChunks breaks text into pieces of at most max runes, preferring
// word boundaries so the synthesized speech stays natural.
func splitChunks(text string, max int) []string {
	runes := []rune(text)
	if len(runes) <= max {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + max
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		// Walk back to the nearest space; fall through to a hard cut
		// for unbroken runs.
		cut := end
		for cut > start && runes[cut] != ' ' {
			cut--
		}
		if cut == start {
			cut = end
		}
		chunks = append(chunks, string(runes[start:cut]))
		start = cut
		for start < len(runes) && runes[start] == ' ' {
			start++
		}
	}
	return chunks
}
