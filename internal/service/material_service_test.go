package service

import (
	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"

	"github.com/google/uuid"
)

func (s *ServiceSuite) TestMaterialLifecycle() {
	m := s.material(s.tenant, "Papel A4", 500)

	updated, err := s.materialS.Update(s.ctx, s.tenant, m.ID, &model.MaterialInput{Name: "Papel A4 75g", Quantity: 450, UnitCost: 0.05})
	s.Require().NoError(err)
	s.Equal("Papel A4 75g", updated.Name)
	s.InDelta(450, updated.Quantity, 1e-9)

	list, err := s.materialS.List(s.ctx, s.tenant)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.materialS.Delete(s.ctx, s.tenant, m.ID))
	_, err = s.materialS.Get(s.ctx, s.tenant, m.ID)
	s.ErrorIs(err, apperr.ErrNotFound)

	s.Equal([]string{"material_created", "material_updated", "material_deleted"}, s.events.actions())
}

func (s *ServiceSuite) TestMaterialValidation() {
	_, err := s.materialS.Create(s.ctx, s.tenant, &model.MaterialInput{Quantity: 1})
	s.ErrorIs(err, apperr.ErrValidation)
	s.Contains(err.Error(), "nome")

	_, err = s.materialS.Create(s.ctx, s.tenant, &model.MaterialInput{Name: "Cola", Quantity: -1})
	s.ErrorIs(err, apperr.ErrValidation)
}

func (s *ServiceSuite) TestMaterialOfAnotherTenantIsNotFound() {
	m := s.material(s.tenant, "Papel", 10)

	_, err := s.materialS.Update(s.ctx, s.intruder, m.ID, &model.MaterialInput{Name: "hijack"})
	s.ErrorIs(err, apperr.ErrNotFound)
	s.ErrorIs(s.materialS.Delete(s.ctx, s.intruder, m.ID), apperr.ErrNotFound)
	s.ErrorIs(s.materialS.Delete(s.ctx, s.tenant, uuid.New()), apperr.ErrNotFound)

	got, err := s.materialS.Get(s.ctx, s.tenant, m.ID)
	s.Require().NoError(err)
	s.Equal("Papel", got.Name)
}

func (s *ServiceSuite) TestDashboardStats() {
	s.material(s.tenant, "Papel", 100) // 100 x 2
	s.material(s.tenant, "Cola", 3)    // low stock, 3 x 2
	s.material(s.intruder, "Alheio", 1)
	p := s.product(s.tenant, "Agenda", 40)
	_, _, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 80, Products: []model.SaleLineInput{sold(p, 2)}})
	s.Require().NoError(err)

	stats, err := s.dashboard.GetDashboardStats(s.ctx, s.tenant)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalMaterials)
	s.Equal(1, stats.LowStockCount)
	s.InDelta(206, stats.InventoryValuation, 1e-9)
	s.Equal(1, stats.TotalProducts)
	s.Equal(1, stats.TotalSales)
	s.InDelta(80, stats.Revenue, 1e-9)
}
