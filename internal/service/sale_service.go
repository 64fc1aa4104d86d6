package service

import (
	"context"
	"time"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"
	"go-papelaria-api/internal/saga"
	"go-papelaria-api/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SaleService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.SaleView, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.SaleView, error)
	Create(ctx context.Context, userID uuid.UUID, in *model.SaleInput) (*model.Sale, saga.Report, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *model.SaleInput) (*model.Sale, saga.Report, error)
}

type saleService struct {
	sales     repository.SaleRepository
	lines     repository.SaleProductRepository
	products  repository.ProductRepository
	links     repository.ProductMaterialRepository
	materials repository.MaterialRepository
	composer  *Composer
	events    Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

type SaleDeps struct {
	Sales     repository.SaleRepository
	Lines     repository.SaleProductRepository
	Products  repository.ProductRepository
	Links     repository.ProductMaterialRepository
	Materials repository.MaterialRepository
	Composer  *Composer
	Events    Publisher
}

func NewSaleService(deps SaleDeps, log logrus.FieldLogger) SaleService {
	return &saleService{
		sales:     deps.Sales,
		lines:     deps.Lines,
		products:  deps.Products,
		links:     deps.Links,
		materials: deps.Materials,
		composer:  deps.Composer,
		events:    deps.Events,
		log:       log,
		now:       time.Now,
	}
}

func (s *saleService) List(ctx context.Context, userID uuid.UUID) ([]model.SaleView, error) {
	sales, err := s.sales.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.composer.Sales(ctx, userID, sales), nil
}

func (s *saleService) Get(ctx context.Context, userID, id uuid.UUID) (*model.SaleView, error) {
	sale, err := s.sales.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	views := s.composer.Sales(ctx, userID, []model.Sale{*sale})
	return &views[0], nil
}

// Create records the sale, then each line in order: the product must belong
// to the tenant, the line is written at the resolved unit price and every
// insumo the product consumes is decremented by perUnit x quantity.
func (s *saleService) Create(ctx context.Context, userID uuid.UUID, in *model.SaleInput) (*model.Sale, saga.Report, error) {
	if err := validate(in); err != nil {
		return nil, saga.Report{}, err
	}

	sale := &model.Sale{UserID: userID, Total: in.Total, Date: s.now()}
	if in.Date != nil {
		sale.Date = *in.Date
	}

	sg := saga.New("record_sale", s.log)
	err := sg.Run(ctx, saga.Step{
		Name:   "insert_sale",
		Policy: saga.Abort,
		Action: func(ctx context.Context) error { return s.sales.Create(ctx, sale) },
	})
	if err != nil {
		return nil, saga.Report{}, err
	}

	for _, line := range in.Products {
		_ = sg.Run(ctx,
			s.verifyProduct(userID, line.ID),
			s.insertLine(sale.ID, line),
			saga.Step{
				Name:   "consume_stock",
				Ref:    line.ID.String(),
				Policy: saga.Continue,
				Expand: func(ctx context.Context) ([]saga.Step, error) {
					return s.consumeSteps(ctx, userID, line)
				},
			},
		)
	}

	mutationsTotal.WithLabelValues("venda", "create").Inc()
	return sale, sg.Report(), nil
}

// Update rewrites the sale row and replaces its lines. Stock is not touched.
func (s *saleService) Update(ctx context.Context, userID, id uuid.UUID, in *model.SaleInput) (*model.Sale, saga.Report, error) {
	if err := validate(in); err != nil {
		return nil, saga.Report{}, err
	}

	patch := map[string]interface{}{"total": in.Total}
	if in.Date != nil {
		patch["data"] = *in.Date
	}

	sg := saga.New("update_sale", s.log)
	err := sg.Run(ctx,
		saga.Step{
			Name:   "update_sale",
			Ref:    id.String(),
			Policy: saga.Abort,
			Action: func(ctx context.Context) error {
				n, err := s.sales.Update(ctx, userID, id, patch)
				if err == nil && n == 0 {
					return apperr.NotFound("venda %s not found", id)
				}
				return err
			},
		},
		saga.Step{
			Name:   "delete_lines",
			Ref:    id.String(),
			Policy: saga.Halt,
			Action: func(ctx context.Context) error {
				_, err := s.lines.DeleteBySale(ctx, id)
				return err
			},
		},
	)
	if err != nil {
		return nil, saga.Report{}, err
	}

	// A failed delete_lines leaves the old lines in place; do not add to them.
	if sg.Report().OK() {
		for _, line := range in.Products {
			_ = sg.Run(ctx, s.verifyProduct(userID, line.ID), s.insertLine(id, line))
		}
	}

	updated, err := s.sales.FindByID(ctx, userID, id)
	if err != nil {
		return nil, saga.Report{}, err
	}
	mutationsTotal.WithLabelValues("venda", "update").Inc()
	return updated, sg.Report(), nil
}

// verifyProduct halts the line when the product is missing or foreign.
func (s *saleService) verifyProduct(userID, productID uuid.UUID) saga.Step {
	return saga.Step{
		Name:   "verify_product",
		Ref:    productID.String(),
		Policy: saga.Halt,
		Action: func(ctx context.Context) error {
			_, err := s.products.FindByID(ctx, userID, productID)
			return err
		},
	}
}

// insertLine stores the price exactly as submitted; the product's current
// preco_venda is never copied in.
func (s *saleService) insertLine(saleID uuid.UUID, line model.SaleLineInput) saga.Step {
	return saga.Step{
		Name:   "insert_sale_line",
		Ref:    line.ID.String(),
		Policy: saga.Continue,
		Action: func(ctx context.Context) error {
			return s.lines.Create(ctx, &model.SaleProduct{
				SaleID:    saleID,
				ProductID: line.ID,
				Quantity:  line.Quantity,
				UnitPrice: line.Price(),
			})
		},
	}
}

// consumeSteps reads the product's recipe and yields one decrement per insumo
// the tenant still owns.
func (s *saleService) consumeSteps(ctx context.Context, userID uuid.UUID, line model.SaleLineInput) ([]saga.Step, error) {
	recipe, err := s.links.FindByProduct(ctx, userID, line.ID)
	if err != nil {
		return nil, err
	}

	steps := make([]saga.Step, 0, len(recipe))
	for _, link := range recipe {
		if link.Material == nil || link.Quantity <= 0 {
			continue
		}
		amount := link.Quantity * line.Quantity
		materialID := link.MaterialID
		steps = append(steps, saga.Step{
			Name:   "decrement_stock",
			Ref:    materialID.String(),
			Policy: saga.Continue,
			Action: func(ctx context.Context) error {
				if _, err := s.materials.DecrementStock(ctx, userID, materialID, amount); err != nil {
					return err
				}
				stockConsumed.Add(amount)
				s.events.Publish(userID.String(), ws.Event{
					Type:   "stock_update",
					Action: "stock_consumed",
					Data:   map[string]interface{}{"id": materialID, "consumed": amount},
				})
				return nil
			},
		})
	}
	return steps, nil
}
