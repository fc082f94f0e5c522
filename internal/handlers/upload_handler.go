package handlers

import (
	"log"

	"jumboprint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles design-file uploads from the order form.
type UploadHandler struct {
	service *services.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// RegisterRoutes registers the upload routes with the Fiber app.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/uploads", h.HandleUpload)
}

// HandleUpload accepts a multipart "file" field, stores it, and returns the
// key the checkout step sends back.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A 'file' form field is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	result, err := h.service.Save(fileHeader.Filename, file)
	if err != nil {
		log.Printf("Error storing uploaded file %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Could not store uploaded file",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"key":     result.Key,
		"url":     result.URL,
	})
}
