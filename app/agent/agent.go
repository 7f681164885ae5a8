// Package agent talks to the tutoring LLM: grounded answers for student
// questions and practice question generation.
package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

type GenerateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Response string `json:"response"`
}

const tutorSystem = `You are a patient tutor for school students.
Answer strictly from the provided context. If the context is empty or does not
contain the information needed, say 'I don't have material on this topic yet.'
Explain step by step in simple language suited to the student's class level.
Don't add introductions like 'Of course!' or 'Here's the answer:'`

// GenerateAnswer asks the tutoring model the student's question grounded in
// the retrieved context.
func GenerateAnswer(context string, question string) (string, error) {
	start := time.Now()
	defer func() {
		slog.Info("tutor model answered", "took", time.Since(start))
	}()

	prompt := fmt.Sprintf(`Answer the student's question using only the given context.
Context:
%s
Question:
%s
Answer:`, context, question)

	return generate(tutorSystem, prompt)
}

// SuggestQuestions asks the model for practice questions on a topic, one per
// line, and returns them as a slice.
func SuggestQuestions(context string, topic string, count int) ([]string, error) {
	prompt := fmt.Sprintf(`Based on the context below, write %d practice questions about "%s"
for the student to try. Each question must be answerable from the context.
Output one question per line, numbered, with no other text.
Context:
%s`, count, topic, context)

	raw, err := generate(tutorSystem, prompt)
	if err != nil {
		return nil, err
	}

	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		// strip "1." / "1)" numbering
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 {
			if _, convErr := fmt.Sscanf(line[:i], "%d", new(int)); convErr == nil {
				line = strings.TrimSpace(line[i+1:])
			}
		}
		if line != "" {
			questions = append(questions, line)
		}
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

func generate(system, prompt string) (string, error) {
	reqBody, err := json.Marshal(GenerateRequest{
		Model:  os.Getenv("LLM_MODEL"),
		System: system,
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	if count, err := CountTokens(reqBody); err == nil {
		slog.Debug("prompt size", "tokens", count, "bytes", len(reqBody))
	}

	resp, err := http.Post(os.Getenv("LLM_URL"),
		"application/json",
		bytes.NewBuffer(reqBody),
	)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err == nil && genResp.Response != "" {
		return genResp.Response, nil
	}

	// streamed response, collect the fragments
	var output strings.Builder
	decoder := json.NewDecoder(bytes.NewReader(body))
	for decoder.More() {
		var chunk GenerateResponse
		if err := decoder.Decode(&chunk); err == nil {
			output.WriteString(chunk.Response)
		}
	}
	return output.String(), nil
}

// CountTokens estimates the token footprint of a request payload.
func CountTokens(data []byte) (int, error) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0, err
	}
	tokens := enc.Encode(string(data), nil, nil)
	return len(tokens), nil
}
