package repository

import (
	"context"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"

	"github.com/google/uuid"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindAll(ctx context.Context, userID uuid.UUID) ([]model.Sale, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Sale, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch map[string]interface{}) (int64, error)
}

type saleRepo struct {
	gw Gateway
}

func NewSaleRepo(gw Gateway) SaleRepository {
	return &saleRepo{gw}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return r.gw.Insert(ctx, Sales, sale)
}

func (r *saleRepo) FindAll(ctx context.Context, userID uuid.UUID) ([]model.Sale, error) {
	sales := []model.Sale{}
	err := r.gw.Find(ctx, Sales, Filters{"user_id": userID}, &sales, OrderBy("data desc"))
	return sales, err
}

func (r *saleRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Sale, error) {
	var found []model.Sale
	if err := r.gw.Find(ctx, Sales, Filters{"user_id": userID, "id": id}, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("venda %s not found", id)
	}
	return &found[0], nil
}

func (r *saleRepo) Update(ctx context.Context, userID, id uuid.UUID, patch map[string]interface{}) (int64, error) {
	return r.gw.Update(ctx, Sales, Filters{"user_id": userID, "id": id}, patch)
}

// SaleProductRepository manages the venda_produto junction.
type SaleProductRepository interface {
	Create(ctx context.Context, line *model.SaleProduct) error
	FindBySale(ctx context.Context, userID, saleID uuid.UUID) ([]model.SaleProduct, error)
	DeleteBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
}

type saleProductRepo struct {
	gw Gateway
}

func NewSaleProductRepo(gw Gateway) SaleProductRepository {
	return &saleProductRepo{gw}
}

func (r *saleProductRepo) Create(ctx context.Context, line *model.SaleProduct) error {
	return r.gw.Insert(ctx, SaleProducts, line)
}

func (r *saleProductRepo) FindBySale(ctx context.Context, userID, saleID uuid.UUID) ([]model.SaleProduct, error) {
	lines := []model.SaleProduct{}
	err := r.gw.Find(ctx, SaleProducts, Filters{"venda_id": saleID}, &lines,
		Preload("Product", "user_id = ?", userID), OrderBy("created_at"))
	return lines, err
}

func (r *saleProductRepo) DeleteBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	return r.gw.Remove(ctx, SaleProducts, Filters{"venda_id": saleID})
}
