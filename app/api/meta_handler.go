package api

import (
	"studyrag/store"

	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct {
	metaStore store.DBStorer
}

func NewMetaHandler(s store.DBStorer) *MetaHandler {
	return &MetaHandler{
		metaStore: s,
	}
}

// HandleBoards lists the boards that have indexed material.
func (h *MetaHandler) HandleBoards(c *fiber.Ctx) error {
	boards, err := h.metaStore.ListBoards(c.Context())
	if err != nil {
		return err
	}
	if boards == nil {
		boards = []string{}
	}
	return c.JSON(fiber.Map{"boards": boards})
}

// HandleSummary reports the distinct metadata values across the index, so a
// client can populate its board, class and subject pickers.
func (h *MetaHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.metaStore.MetadataSummary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
