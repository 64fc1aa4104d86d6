package service

import (
	"context"

	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultFanOut = 8

// Composer embeds child rows into their parents with one query per parent,
// issued concurrently. A failed child query leaves that parent with an empty
// list instead of failing the whole read.
type Composer struct {
	productMaterials repository.ProductMaterialRepository
	saleProducts     repository.SaleProductRepository
	limit            int
	log              logrus.FieldLogger
}

func NewComposer(pm repository.ProductMaterialRepository, sp repository.SaleProductRepository, log logrus.FieldLogger) *Composer {
	return &Composer{
		productMaterials: pm,
		saleProducts:     sp,
		limit:            defaultFanOut,
		log:              log.WithField("component", "composer"),
	}
}

func (c *Composer) Products(ctx context.Context, userID uuid.UUID, products []model.Product) []model.ProductView {
	views := make([]model.ProductView, len(products))

	var g errgroup.Group
	g.SetLimit(c.limit)
	for i := range products {
		i := i
		g.Go(func() error {
			views[i] = model.ProductView{Product: products[i], Materials: []model.MaterialLine{}}
			links, err := c.productMaterials.FindByProduct(ctx, userID, products[i].ID)
			if err != nil {
				c.log.WithError(err).WithField("produto_id", products[i].ID).Warn("Failed to load product materials")
				return nil
			}
			views[i].Materials = materialLines(links)
			return nil
		})
	}
	_ = g.Wait()
	return views
}

func (c *Composer) Sales(ctx context.Context, userID uuid.UUID, sales []model.Sale) []model.SaleView {
	views := make([]model.SaleView, len(sales))

	var g errgroup.Group
	g.SetLimit(c.limit)
	for i := range sales {
		i := i
		g.Go(func() error {
			views[i] = model.SaleView{Sale: sales[i], Products: []model.SaleLine{}}
			lines, err := c.saleProducts.FindBySale(ctx, userID, sales[i].ID)
			if err != nil {
				c.log.WithError(err).WithField("venda_id", sales[i].ID).Warn("Failed to load sale products")
				return nil
			}
			views[i].Products = saleLines(lines)
			return nil
		})
	}
	_ = g.Wait()
	return views
}

// materialLines skips links whose insumo is gone or belongs to someone else.
func materialLines(links []model.ProductMaterial) []model.MaterialLine {
	out := make([]model.MaterialLine, 0, len(links))
	for _, l := range links {
		if l.Material == nil {
			continue
		}
		out = append(out, model.MaterialLine{
			ID:       l.Material.ID,
			Name:     l.Material.Name,
			UnitCost: l.Material.UnitCost,
			Quantity: l.Quantity,
			LinkID:   l.ID,
		})
	}
	return out
}

// saleLines keeps lines of deleted products so the sale history stays whole.
func saleLines(lines []model.SaleProduct) []model.SaleLine {
	out := make([]model.SaleLine, 0, len(lines))
	for _, l := range lines {
		line := model.SaleLine{
			ID:        l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LinkID:    l.ID,
		}
		if l.Product != nil {
			line.Name = l.Product.Name
			line.SalePrice = l.Product.SalePrice
		}
		out = append(out, line)
	}
	return out
}
