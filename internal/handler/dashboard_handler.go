package handler

import (
	"go-papelaria-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns overview statistics for the caller's stock and sales
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.service.GetDashboardStats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}
