package handler

import (
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MaterialHandler struct {
	service service.MaterialService
}

func NewMaterialHandler(s service.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: s}
}

// List returns every insumo of the caller
// GET /insumos
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	userID, _, err := scope(c, false)
	if err != nil {
		return respondError(c, err)
	}
	materials, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(materials)
}

// GET /insumos/:id
func (h *MaterialHandler) Get(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	material, err := h.service.Get(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(material)
}

// POST /insumos
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	userID, _, err := scope(c, false)
	if err != nil {
		return respondError(c, err)
	}
	var req model.MaterialInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	material, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(material)
}

// PUT /insumos/:id
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	var req model.MaterialInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	material, err := h.service.Update(c.UserContext(), userID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(material)
}

// DELETE /insumos/:id
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
