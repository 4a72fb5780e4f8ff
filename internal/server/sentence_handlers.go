package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListSentences handles GET /api/articles/:id/sentences
func (s *Server) ListSentences(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	articleID, err := parseArticleID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	sentences, err := s.sentenceService.ListSentences(c.UserContext(), userID, articleID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(sentences)
}

// AppendSentence handles POST /api/articles/:id/sentences
func (s *Server) AppendSentence(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	articleID, err := parseArticleID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sentence, err := s.sentenceService.AppendSentence(c.UserContext(), userID, articleID, req.Text)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sentence)
}

// GetSentence handles GET /api/articles/:id/sentences/:position
func (s *Server) GetSentence(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	articleID, err := parseArticleID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	position, err := parsePosition(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	sentence, err := s.sentenceService.GetSentence(c.UserContext(), userID, articleID, position)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(sentence)
}

// UpdateSentence handles PUT /api/articles/:id/sentences/:position
func (s *Server) UpdateSentence(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	articleID, err := parseArticleID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	position, err := parsePosition(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sentence, err := s.sentenceService.UpdateSentence(c.UserContext(), userID, articleID, position,
		service.UpdateSentenceInput{Text: req.Text})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(sentence)
}

// DeleteSentence handles DELETE /api/articles/:id/sentences/:position
func (s *Server) DeleteSentence(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	articleID, err := parseArticleID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	position, err := parsePosition(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.sentenceService.DeleteSentence(c.UserContext(), userID, articleID, position); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
