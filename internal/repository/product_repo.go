package repository

import (
	"context"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, userID uuid.UUID) ([]model.Product, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *model.ProductInput) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type productRepo struct {
	gw Gateway
}

func NewProductRepo(gw Gateway) ProductRepository {
	return &productRepo{gw}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.gw.Insert(ctx, Products, product)
}

func (r *productRepo) FindAll(ctx context.Context, userID uuid.UUID) ([]model.Product, error) {
	products := []model.Product{}
	err := r.gw.Find(ctx, Products, Filters{"user_id": userID}, &products, OrderBy("created_at"))
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Product, error) {
	var found []model.Product
	if err := r.gw.Find(ctx, Products, Filters{"user_id": userID, "id": id}, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("produto %s not found", id)
	}
	return &found[0], nil
}

func (r *productRepo) Update(ctx context.Context, userID, id uuid.UUID, in *model.ProductInput) (int64, error) {
	return r.gw.Update(ctx, Products, Filters{"user_id": userID, "id": id}, map[string]interface{}{
		"nome":        in.Name,
		"preco_venda": in.SalePrice,
		"custo_total": in.TotalCost,
	})
}

func (r *productRepo) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	return r.gw.Remove(ctx, Products, Filters{"user_id": userID, "id": id})
}

// ProductMaterialRepository manages the produto_insumo junction. Callers must
// have checked that the parent product belongs to the tenant.
type ProductMaterialRepository interface {
	Create(ctx context.Context, link *model.ProductMaterial) error
	// FindByProduct loads links with their insumo, joined only when the insumo
	// belongs to userID.
	FindByProduct(ctx context.Context, userID, productID uuid.UUID) ([]model.ProductMaterial, error)
	DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type productMaterialRepo struct {
	gw Gateway
}

func NewProductMaterialRepo(gw Gateway) ProductMaterialRepository {
	return &productMaterialRepo{gw}
}

func (r *productMaterialRepo) Create(ctx context.Context, link *model.ProductMaterial) error {
	return r.gw.Insert(ctx, ProductMaterials, link)
}

func (r *productMaterialRepo) FindByProduct(ctx context.Context, userID, productID uuid.UUID) ([]model.ProductMaterial, error) {
	links := []model.ProductMaterial{}
	err := r.gw.Find(ctx, ProductMaterials, Filters{"produto_id": productID}, &links,
		Preload("Material", "user_id = ?", userID), OrderBy("created_at"))
	return links, err
}

func (r *productMaterialRepo) DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	return r.gw.Remove(ctx, ProductMaterials, Filters{"produto_id": productID})
}
