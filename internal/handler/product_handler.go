package handler

import (
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

type productResponse struct {
	*model.Product
	failures
}

// List returns the caller's products with their insumos
// GET /produtos
func (h *ProductHandler) List(c *fiber.Ctx) error {
	userID, _, err := scope(c, false)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /produtos/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.Get(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// POST /produtos
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, _, err := scope(c, false)
	if err != nil {
		return respondError(c, err)
	}
	var req model.ProductInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	product, report, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(productResponse{product, withFailures(report)})
}

// PUT /produtos/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	var req model.ProductInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	product, report, err := h.service.Update(c.UserContext(), userID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(productResponse{product, withFailures(report)})
}

// DELETE /produtos/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
