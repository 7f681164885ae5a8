package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// allowed upload extensions, keyed lowercase
var uploadExtensions = map[string]struct{}{
	".pdf":  {},
	".md":   {},
	".txt":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

type FileHandler struct{}

func NewFileHandler() *FileHandler {
	return &FileHandler{}
}

// HandleUpload drops an uploaded study document into the loader's source
// directory. The loader service picks it up, chunks and indexes it.
func (h *FileHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrBadRequest()
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := uploadExtensions[ext]; !ok {
		return ErrUnsupportedFile(fileHeader.Filename)
	}

	path := filepath.Join(os.Getenv("LOADER_SOURCE_DIR"), filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		return err
	}
	slog.Info("file queued for indexing", "path", path)

	return c.JSON(fiber.Map{"result": "ok", "file": fileHeader.Filename})
}

// HandleUploadMeta stores a metadata sidecar next to an already uploaded
// document so the loader can attach board, class and subject to its chunks.
func (h *FileHandler) HandleUploadMeta(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" || name != filepath.Base(name) {
		return ErrBadRequest()
	}

	body := c.Body()
	if len(body) == 0 {
		return ErrBadRequest()
	}

	path := filepath.Join(os.Getenv("LOADER_SOURCE_DIR"), fmt.Sprintf("%s.meta.json", name))
	if err := os.WriteFile(path, body, 0644); err != nil {
		return err
	}
	slog.Info("metadata sidecar saved", "path", path)

	return c.JSON(fiber.Map{"result": "ok"})
}
