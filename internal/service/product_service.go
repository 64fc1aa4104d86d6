package service

import (
	"context"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"
	"go-papelaria-api/internal/saga"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProductService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.ProductView, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.ProductView, error)
	Create(ctx context.Context, userID uuid.UUID, in *model.ProductInput) (*model.Product, saga.Report, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *model.ProductInput) (*model.Product, saga.Report, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type productService struct {
	products  repository.ProductRepository
	links     repository.ProductMaterialRepository
	materials repository.MaterialRepository
	composer  *Composer
	log       logrus.FieldLogger
}

func NewProductService(
	products repository.ProductRepository,
	links repository.ProductMaterialRepository,
	materials repository.MaterialRepository,
	composer *Composer,
	log logrus.FieldLogger,
) ProductService {
	return &productService{
		products:  products,
		links:     links,
		materials: materials,
		composer:  composer,
		log:       log,
	}
}

func (s *productService) List(ctx context.Context, userID uuid.UUID) ([]model.ProductView, error) {
	products, err := s.products.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.composer.Products(ctx, userID, products), nil
}

func (s *productService) Get(ctx context.Context, userID, id uuid.UUID) (*model.ProductView, error) {
	product, err := s.products.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	views := s.composer.Products(ctx, userID, []model.Product{*product})
	return &views[0], nil
}

func (s *productService) Create(ctx context.Context, userID uuid.UUID, in *model.ProductInput) (*model.Product, saga.Report, error) {
	if err := validate(in); err != nil {
		return nil, saga.Report{}, err
	}

	product := &model.Product{
		UserID:    userID,
		Name:      in.Name,
		SalePrice: in.SalePrice,
		TotalCost: in.TotalCost,
	}

	sg := saga.New("create_product", s.log)
	steps := []saga.Step{{
		Name:   "insert_product",
		Policy: saga.Abort,
		Action: func(ctx context.Context) error { return s.products.Create(ctx, product) },
	}}
	steps = append(steps, s.linkSteps(userID, func() uuid.UUID { return product.ID }, in.Materials)...)

	if err := sg.Run(ctx, steps...); err != nil {
		return nil, saga.Report{}, err
	}
	mutationsTotal.WithLabelValues("produto", "create").Inc()
	return product, sg.Report(), nil
}

// Update replaces the product's fields and its whole material set. If the old
// links cannot be removed the new ones are not written, so the stored set is
// never a mix of both.
func (s *productService) Update(ctx context.Context, userID, id uuid.UUID, in *model.ProductInput) (*model.Product, saga.Report, error) {
	if err := validate(in); err != nil {
		return nil, saga.Report{}, err
	}

	sg := saga.New("update_product", s.log)
	steps := []saga.Step{
		{
			Name:   "update_product",
			Ref:    id.String(),
			Policy: saga.Abort,
			Action: func(ctx context.Context) error {
				n, err := s.products.Update(ctx, userID, id, in)
				if err == nil && n == 0 {
					return apperr.NotFound("produto %s not found", id)
				}
				return err
			},
		},
		{
			Name:   "delete_links",
			Ref:    id.String(),
			Policy: saga.Halt,
			Action: func(ctx context.Context) error {
				_, err := s.links.DeleteByProduct(ctx, id)
				return err
			},
		},
	}
	steps = append(steps, s.linkSteps(userID, func() uuid.UUID { return id }, in.Materials)...)

	if err := sg.Run(ctx, steps...); err != nil {
		return nil, saga.Report{}, err
	}

	updated, err := s.products.FindByID(ctx, userID, id)
	if err != nil {
		return nil, saga.Report{}, err
	}
	mutationsTotal.WithLabelValues("produto", "update").Inc()
	return updated, sg.Report(), nil
}

// Delete removes the links before the product. Should the product delete
// fail, the captured links are written back with their original ids.
func (s *productService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, userID, id); err != nil {
		return err
	}
	captured, err := s.links.FindByProduct(ctx, userID, id)
	if err != nil {
		return err
	}

	sg := saga.New("delete_product", s.log)
	err = sg.Run(ctx,
		saga.Step{
			Name:   "delete_links",
			Ref:    id.String(),
			Policy: saga.Abort,
			Action: func(ctx context.Context) error {
				_, err := s.links.DeleteByProduct(ctx, id)
				return err
			},
			Compensate: func(ctx context.Context) error {
				for i := range captured {
					captured[i].Material = nil
					if err := s.links.Create(ctx, &captured[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
		saga.Step{
			Name:   "delete_product",
			Ref:    id.String(),
			Policy: saga.Abort,
			Action: func(ctx context.Context) error {
				n, err := s.products.Delete(ctx, userID, id)
				if err == nil && n == 0 {
					return apperr.NotFound("produto %s not found", id)
				}
				return err
			},
		},
	)
	if err != nil {
		return err
	}
	mutationsTotal.WithLabelValues("produto", "delete").Inc()
	return nil
}

// linkSteps writes one produto_insumo row per line, in order. productID is
// resolved when the step runs because a new product has no id until inserted.
func (s *productService) linkSteps(userID uuid.UUID, productID func() uuid.UUID, lines []model.ProductMaterialInput) []saga.Step {
	steps := make([]saga.Step, 0, len(lines))
	for _, line := range lines {
		line := line
		steps = append(steps, saga.Step{
			Name:   "insert_link",
			Ref:    line.ID.String(),
			Policy: saga.Continue,
			Action: func(ctx context.Context) error {
				if _, err := s.materials.FindByID(ctx, userID, line.ID); err != nil {
					return err
				}
				return s.links.Create(ctx, &model.ProductMaterial{
					ProductID:  productID(),
					MaterialID: line.ID,
					Quantity:   line.Quantity,
				})
			},
		})
	}
	return steps
}
