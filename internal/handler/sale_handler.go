package handler

import (
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

type saleResponse struct {
	*model.Sale
	failures
}

// List returns the caller's sales, newest first, with their lines
// GET /vendas
func (h *SaleHandler) List(c *fiber.Ctx) error {
	userID, _, err := scope(c, false)
	if err != nil {
		return respondError(c, err)
	}
	sales, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// GET /vendas/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.service.Get(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// Create records a sale and consumes the insumos of every sold product
// POST /vendas
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID, _, err := scope(c, false)
	if err != nil {
		return respondError(c, err)
	}
	var req model.SaleInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	sale, report, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saleResponse{sale, withFailures(report)})
}

// PUT /vendas/:id
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	userID, id, err := scope(c, true)
	if err != nil {
		return respondError(c, err)
	}
	var req model.SaleInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	sale, report, err := h.service.Update(c.UserContext(), userID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saleResponse{sale, withFailures(report)})
}
