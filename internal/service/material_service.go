package service

import (
	"context"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"
	"go-papelaria-api/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type MaterialService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.RawMaterial, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.RawMaterial, error)
	Create(ctx context.Context, userID uuid.UUID, in *model.MaterialInput) (*model.RawMaterial, error)
	Update(ctx context.Context, userID, id uuid.UUID, in *model.MaterialInput) (*model.RawMaterial, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type materialService struct {
	materials repository.MaterialRepository
	events    Publisher
	log       logrus.FieldLogger
}

func NewMaterialService(materials repository.MaterialRepository, events Publisher, log logrus.FieldLogger) MaterialService {
	return &materialService{
		materials: materials,
		events:    events,
		log:       log.WithField("service", "materials"),
	}
}

func (s *materialService) List(ctx context.Context, userID uuid.UUID) ([]model.RawMaterial, error) {
	return s.materials.FindAll(ctx, userID)
}

func (s *materialService) Get(ctx context.Context, userID, id uuid.UUID) (*model.RawMaterial, error) {
	return s.materials.FindByID(ctx, userID, id)
}

func (s *materialService) Create(ctx context.Context, userID uuid.UUID, in *model.MaterialInput) (*model.RawMaterial, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	m := &model.RawMaterial{
		UserID:   userID,
		Name:     in.Name,
		Quantity: in.Quantity,
		UnitCost: in.UnitCost,
	}
	if err := s.materials.Create(ctx, m); err != nil {
		return nil, err
	}

	mutationsTotal.WithLabelValues("insumo", "create").Inc()
	s.publish(userID, "material_created", m)
	return m, nil
}

func (s *materialService) Update(ctx context.Context, userID, id uuid.UUID, in *model.MaterialInput) (*model.RawMaterial, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	n, err := s.materials.Update(ctx, userID, id, in)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperr.NotFound("insumo %s not found", id)
	}

	updated, err := s.materials.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	mutationsTotal.WithLabelValues("insumo", "update").Inc()
	s.publish(userID, "material_updated", updated)
	return updated, nil
}

func (s *materialService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.materials.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("insumo %s not found", id)
	}

	mutationsTotal.WithLabelValues("insumo", "delete").Inc()
	s.publish(userID, "material_deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *materialService) publish(userID uuid.UUID, action string, data interface{}) {
	s.events.Publish(userID.String(), ws.Event{Type: "stock_update", Action: action, Data: data})
	s.log.WithFields(logrus.Fields{"user_id": userID, "action": action}).Debug("Stock event published")
}
