package repository

import (
	"context"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"

	"github.com/google/uuid"
)

type MaterialRepository interface {
	Create(ctx context.Context, m *model.RawMaterial) error
	FindAll(ctx context.Context, userID uuid.UUID) ([]model.RawMaterial, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.RawMaterial, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *model.MaterialInput) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
	// DecrementStock lowers quantidade by amount, never below zero.
	DecrementStock(ctx context.Context, userID, id uuid.UUID, amount float64) (int64, error)
}

type materialRepo struct {
	gw Gateway
}

func NewMaterialRepo(gw Gateway) MaterialRepository {
	return &materialRepo{gw}
}

func (r *materialRepo) Create(ctx context.Context, m *model.RawMaterial) error {
	return r.gw.Insert(ctx, Materials, m)
}

func (r *materialRepo) FindAll(ctx context.Context, userID uuid.UUID) ([]model.RawMaterial, error) {
	materials := []model.RawMaterial{}
	err := r.gw.Find(ctx, Materials, Filters{"user_id": userID}, &materials, OrderBy("created_at"))
	return materials, err
}

func (r *materialRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.RawMaterial, error) {
	var found []model.RawMaterial
	if err := r.gw.Find(ctx, Materials, Filters{"user_id": userID, "id": id}, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("insumo %s not found", id)
	}
	return &found[0], nil
}

func (r *materialRepo) Update(ctx context.Context, userID, id uuid.UUID, in *model.MaterialInput) (int64, error) {
	return r.gw.Update(ctx, Materials, Filters{"user_id": userID, "id": id}, map[string]interface{}{
		"nome":           in.Name,
		"quantidade":     in.Quantity,
		"valor_unitario": in.UnitCost,
	})
}

func (r *materialRepo) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	return r.gw.Remove(ctx, Materials, Filters{"user_id": userID, "id": id})
}

func (r *materialRepo) DecrementStock(ctx context.Context, userID, id uuid.UUID, amount float64) (int64, error) {
	return r.gw.Decrement(ctx, Materials, Filters{"user_id": userID, "id": id}, "quantidade", amount)
}
