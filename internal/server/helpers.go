package server

import (
	"strconv"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusForAppError maps an application error code to its HTTP status.
func statusForAppError(err error) int {
	appErr, ok := err.(*models.AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "CONFLICT":
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes a service-layer error with its mapped status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForAppError(err), err)
}

// parseArticleID reads the :id path parameter. A malformed UUID cannot name
// any article and reports the same NotFound as an absent one.
func parseArticleID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, models.NewNotFoundError("Article", raw)
	}
	return id, nil
}

// parsePosition reads the :position path parameter. Positions are 1-based,
// so anything non-numeric or below 1 is a malformed request.
func parsePosition(c *fiber.Ctx) (int, error) {
	raw := c.Params("position")
	position, err := strconv.Atoi(raw)
	if err != nil || position < 1 {
		return 0, models.NewValidationError("Invalid sentence position")
	}
	return position, nil
}
