package controllers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/hhtelecom/fieldcapture/internal/pkg/capture"
	"github.com/hhtelecom/fieldcapture/internal/pkg/syncengine"
)

// UploadController exposes the direct file ingestion endpoint: one
// multipart file in, its public object storage URL out.
type UploadController struct {
	storage syncengine.ObjectStorage
	prefix  string
}

// NewUploadController creates the upload controller. prefix namespaces
// the object keys (default "relatorios").
func NewUploadController(storage syncengine.ObjectStorage, prefix string) *UploadController {
	if prefix == "" {
		prefix = "relatorios"
	}
	return &UploadController{storage: storage, prefix: prefix}
}

// HandleUpload stores one multipart "file" field and returns {url, key}.
func (uc *UploadController) HandleUpload(c *fiber.Ctx) error {
	if uc.storage == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object storage is not configured"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if err := capture.CheckSize(fileHeader.Filename, fileHeader.Size); err != nil {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read uploaded file"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%s-%s", uc.prefix, uuid.New().String(), capture.SanitizeFileName(fileHeader.Filename))
	url, err := uc.storage.Upload(c.Context(), key, data, contentType)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Ingest] upload of %s failed: %v", key, err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to store file"})
	}

	return c.JSON(fiber.Map{"url": url, "key": key})
}
