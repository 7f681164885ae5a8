package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// VisionModel extracts text from an image of a student's notes or assignment.
type VisionModel interface {
	ReadNote(img string) (string, error)
	Retry(ctx context.Context, img string, maxAttempts int) (string, error)
}

// LLaVA reads handwritten or photographed study material through an Ollama
// vision model.
type LLaVA struct {
	URL   string
	Model string
}

type llavaRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Temperature float32  `json:"temperature"`
	TopP        float32  `json:"top_p"`
	TopK        int      `json:"top_k"`
	MaxTokens   int      `json:"max_tokens"`
	Images      []string `json:"images"`
}

type llavaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewLLaVA() *LLaVA {
	return &LLaVA{
		URL:   os.Getenv("OLLAMA_VL_URL"),
		Model: os.Getenv("OLLAMA_VL_MODEL"),
	}
}

const readNotePrompt = `You are a vision-language transcription model.

Your task is to transcribe ALL text visible in the provided image of study
notes or a homework assignment.

RULES (MANDATORY):

- Output ONLY the transcribed text, nothing else.
- Preserve the document structure: keep headings on their own lines and
  prefix them with '#' for main titles and '##' for sub-headings.
- Preserve line breaks between paragraphs and list items.
- Preserve exact wording, capitalization, punctuation, numbers and
  mathematical expressions.
- Do NOT add explanations, comments, or markdown fences.
- Do NOT invent or infer text that is not visible.
- If part of the text is unreadable, write [illegible] in its place.

NOW transcribe the image.
`

// ReadNote sends the base64-encoded image to the vision model and collects
// the streamed transcription.
func (l *LLaVA) ReadNote(img string) (string, error) {
	slog.Info("transcribing note image", "model", l.Model)

	req := llavaRequest{
		Model:       l.Model,
		Prompt:      readNotePrompt,
		Temperature: 0.05,
		TopP:        0.9,
		TopK:        20,
		MaxTokens:   2048,
		Images:      []string{img},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	defer func() {
		slog.Info("vision model answered", "took", time.Since(start))
	}()

	resp, err := http.Post(l.URL, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	decoder := json.NewDecoder(resp.Body)

	var b strings.Builder

	for {
		var lr llavaResponse

		if err := decoder.Decode(&lr); err == io.EOF {
			break
		} else if err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}

		b.WriteString(lr.Response)

		if lr.Done {
			break
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("vision model returned no text")
	}

	return text, nil
}

// Retry re-runs transcription with backoff until it yields text.
func (l *LLaVA) Retry(ctx context.Context, img string, maxAttempts int) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		slog.Info("transcription attempt", "attempt", attempt)
		text, err := l.ReadNote(img)
		if err == nil {
			return text, nil
		}

		lastErr = err
		time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
	}

	return "", fmt.Errorf("vision retry failed after %d attempts: %w", maxAttempts, lastErr)
}
