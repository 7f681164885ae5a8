package api

import (
	"context"
	"log/slog"
	"time"

	"studyrag/app/agent"
	"studyrag/model"
	"studyrag/retriever"
	"studyrag/store"
	"studyrag/types"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	contextStore store.DBStorer
	embedder     model.Embedder
	retriever    *retriever.ContextRetriever
}

func NewRequestHandler(contextStore store.DBStorer) *RequestHandler {
	embedder := model.NewOllamaEmbedder()
	return &RequestHandler{
		contextStore: contextStore,
		embedder:     embedder,
		retriever:    retriever.New(contextStore, embedder),
	}
}

// HandleAsk answers a student question from curriculum material matching the
// optional board, class and subject filters.
func (h *RequestHandler) HandleAsk(c *fiber.Ctx) error {
	var params types.QueryParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	filter := retriever.Filter{
		Board:   params.Board,
		Class:   params.Class,
		Subject: params.Subject,
	}

	chunks := h.retriever.Retrieve(c.Context(), params.Prompt, filter, params.TopK)
	contextStr := retriever.FormatContext(chunks, filter)

	confidence := 0.0
	if len(chunks) > 0 {
		confidence = chunks[0].Distance
	}

	answer, err := agent.GenerateAnswer(contextStr, params.Prompt)
	if err != nil {
		return err
	}

	resp := &types.AnswerResponse{
		Answer:     answer,
		Sources:    h.formatSources(c.Context(), chunks),
		Confidence: confidence,
		Timestamp:  time.Now(),
	}
	return c.JSON(resp)
}

// HandleSuggest generates practice questions on a topic from the matching
// curriculum material.
func (h *RequestHandler) HandleSuggest(c *fiber.Ctx) error {
	var params types.SuggestParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	count := params.Count
	if count == 0 {
		count = 3
	}

	filter := retriever.Filter{
		Board:   params.Board,
		Class:   params.Class,
		Subject: params.Subject,
	}

	chunks := h.retriever.Retrieve(c.Context(), params.Topic, filter, retriever.DefaultTopK)
	contextStr := retriever.FormatContext(chunks, filter)

	questions, err := agent.SuggestQuestions(contextStr, params.Topic, count)
	if err != nil {
		return err
	}

	resp := &types.SuggestResponse{
		Topic:     params.Topic,
		Questions: questions,
		Timestamp: time.Now(),
	}
	return c.JSON(resp)
}

func (h *RequestHandler) formatSources(ctx context.Context, chunks []types.Chunk) []types.Source {
	sources := make([]types.Source, len(chunks))
	for i, chunk := range chunks {
		sources[i] = types.Source{
			DocID:   chunk.DocID.String(),
			Board:   chunk.Metadata.Board,
			Subject: chunk.Metadata.Subject,
			Class:   chunk.Metadata.Class,
			Chapter: chunk.Metadata.Chapter,
			Index:   chunk.Index,
		}

		doc, err := h.contextStore.GetDocumentByID(ctx, chunk.DocID)
		if err != nil {
			slog.Warn("source document lookup failed", "doc", chunk.DocID, "error", err)
			continue
		}
		sources[i].Title = doc.Title
	}
	return sources
}
