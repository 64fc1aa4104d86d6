package service

import (
	"context"

	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	TotalMaterials     int     `json:"total_materials"`
	LowStockCount      int     `json:"low_stock_count"`
	InventoryValuation float64 `json:"inventory_valuation"`
	TotalProducts      int     `json:"total_products"`
	TotalSales         int     `json:"total_sales"`
	Revenue            float64 `json:"revenue"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
}

type dashboardService struct {
	materials         repository.MaterialRepository
	products          repository.ProductRepository
	sales             repository.SaleRepository
	lowStockThreshold float64
}

func NewDashboardService(materials repository.MaterialRepository, products repository.ProductRepository, sales repository.SaleRepository, lowStockThreshold float64) DashboardService {
	return &dashboardService{
		materials:         materials,
		products:          products,
		sales:             sales,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	var (
		materials []model.RawMaterial
		products  []model.Product
		sales     []model.Sale
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		materials, err = s.materials.FindAll(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.products.FindAll(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		sales, err = s.sales.FindAll(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalMaterials: len(materials),
		TotalProducts:  len(products),
		TotalSales:     len(sales),
	}
	for _, m := range materials {
		if m.Quantity < s.lowStockThreshold {
			stats.LowStockCount++
		}
		stats.InventoryValuation += m.Quantity * m.UnitCost
	}
	for _, sale := range sales {
		stats.Revenue += sale.Total
	}
	return stats, nil
}
