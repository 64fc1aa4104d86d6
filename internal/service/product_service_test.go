package service

import (
	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"

	"github.com/google/uuid"
)

func materialIDs(view *model.ProductView) map[uuid.UUID]float64 {
	out := map[uuid.UUID]float64{}
	for _, l := range view.Materials {
		out[l.ID] = l.Quantity
	}
	return out
}

func (s *ServiceSuite) TestProductReadsBackItsMaterials() {
	m1 := s.material(s.tenant, "Papel", 100)
	m2 := s.material(s.tenant, "Cola", 100)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2), uses(m2, 3))

	view, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Equal(map[uuid.UUID]float64{m1.ID: 2, m2.ID: 3}, materialIDs(view))

	for _, l := range view.Materials {
		s.NotEqual(uuid.Nil, l.LinkID)
		s.Equal(2.0, l.UnitCost)
	}
}

func (s *ServiceSuite) TestUpdateReplacesMaterialSet() {
	m1 := s.material(s.tenant, "Papel", 100)
	m3 := s.material(s.tenant, "Fita", 100)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	updated, report, err := s.productS.Update(s.ctx, s.tenant, p.ID, &model.ProductInput{
		Name:      "Caderno capa dura",
		SalePrice: 30,
		Materials: []model.ProductMaterialInput{uses(m3, 5)},
	})
	s.Require().NoError(err)
	s.True(report.OK())
	s.Equal("Caderno capa dura", updated.Name)

	view, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Equal(map[uuid.UUID]float64{m3.ID: 5}, materialIDs(view))
}

func (s *ServiceSuite) TestUpdateKeepsOldSetWhenLinkDeleteFails() {
	m1 := s.material(s.tenant, "Papel", 100)
	m3 := s.material(s.tenant, "Fita", 100)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	s.gw.removeErr = func(e repository.Entity) error {
		if e.Table == repository.ProductMaterials.Table {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	_, report, err := s.productS.Update(s.ctx, s.tenant, p.ID, &model.ProductInput{
		Name:      "Caderno",
		Materials: []model.ProductMaterialInput{uses(m3, 5)},
	})
	s.Require().NoError(err)
	s.Require().Len(report.Failures, 1)
	s.Equal("delete_links", report.Failures[0].Step)
	s.gw.reset()

	view, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Equal(map[uuid.UUID]float64{m1.ID: 2}, materialIDs(view))
}

func (s *ServiceSuite) TestCreateProductToleratesLinkFailures() {
	own := s.material(s.tenant, "Papel", 100)
	foreign := s.material(s.intruder, "Alheio", 100)

	p, report, err := s.productS.Create(s.ctx, s.tenant, &model.ProductInput{
		Name:      "Bloco",
		SalePrice: 12,
		Materials: []model.ProductMaterialInput{uses(foreign, 1), uses(own, 4)},
	})
	s.Require().NoError(err)
	s.Require().Len(report.Failures, 1)
	s.Equal("insert_link", report.Failures[0].Step)
	s.Equal(foreign.ID.String(), report.Failures[0].Ref)

	view, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Equal(map[uuid.UUID]float64{own.ID: 4}, materialIDs(view))
}

func (s *ServiceSuite) TestCreateProductAbortsOnPrimaryFailure() {
	s.gw.insertErr = func(e repository.Entity) error {
		if e.Table == repository.Products.Table {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	_, _, err := s.productS.Create(s.ctx, s.tenant, &model.ProductInput{Name: "Bloco"})
	s.ErrorIs(err, apperr.ErrStorage)
	s.Equal(errInjected.Error(), err.Error())
}

func (s *ServiceSuite) TestCreateProductValidates() {
	_, _, err := s.productS.Create(s.ctx, s.tenant, &model.ProductInput{
		Name:      "Bloco",
		Materials: []model.ProductMaterialInput{{ID: uuid.Nil, Quantity: 1}},
	})
	s.ErrorIs(err, apperr.ErrValidation)
	s.Contains(err.Error(), "insumos[0].id")
}

func (s *ServiceSuite) TestDeleteProductRemovesLinksAndProduct() {
	m1 := s.material(s.tenant, "Papel", 100)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	s.Require().NoError(s.productS.Delete(s.ctx, s.tenant, p.ID))

	_, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.ErrorIs(err, apperr.ErrNotFound)
	links, err := s.links.FindByProduct(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Empty(links)

	s.ErrorIs(s.productS.Delete(s.ctx, s.tenant, uuid.New()), apperr.ErrNotFound)
}

func (s *ServiceSuite) TestDeleteForeignProductWritesNothing() {
	m1 := s.material(s.tenant, "Papel", 100)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	s.ErrorIs(s.productS.Delete(s.ctx, s.intruder, p.ID), apperr.ErrNotFound)

	view, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Len(view.Materials, 1)
}

func (s *ServiceSuite) TestDeleteProductRestoresLinksWhenProductDeleteFails() {
	m1 := s.material(s.tenant, "Papel", 100)
	m2 := s.material(s.tenant, "Cola", 100)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2), uses(m2, 1))

	before, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)

	s.gw.removeErr = func(e repository.Entity) error {
		if e.Table == repository.Products.Table {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	err = s.productS.Delete(s.ctx, s.tenant, p.ID)
	s.ErrorIs(err, apperr.ErrStorage)
	s.gw.reset()

	after, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.ElementsMatch(before.Materials, after.Materials)
}

func (s *ServiceSuite) TestDeleteProductKeepsProductWhenLinkDeleteFails() {
	m1 := s.material(s.tenant, "Papel", 100)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	s.gw.removeErr = func(e repository.Entity) error {
		if e.Table == repository.ProductMaterials.Table {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	s.ErrorIs(s.productS.Delete(s.ctx, s.tenant, p.ID), apperr.ErrStorage)
	s.gw.reset()

	view, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Len(view.Materials, 1)
}

func (s *ServiceSuite) TestListProductsDegradesPerProduct() {
	m1 := s.material(s.tenant, "Papel", 100)
	broken := s.product(s.tenant, "Caderno", 25, uses(m1, 2))
	healthy := s.product(s.tenant, "Agenda", 40, uses(m1, 1))

	s.gw.findErr = func(e repository.Entity, f repository.Filters) error {
		if e.Table == repository.ProductMaterials.Table && f["produto_id"] == broken.ID {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	views, err := s.productS.List(s.ctx, s.tenant)
	s.Require().NoError(err)
	s.Require().Len(views, 2)

	for _, v := range views {
		switch v.ID {
		case broken.ID:
			s.NotNil(v.Materials)
			s.Empty(v.Materials)
		case healthy.ID:
			s.Len(v.Materials, 1)
		}
	}
}

func (s *ServiceSuite) TestProductsAreTenantScoped() {
	p := s.product(s.tenant, "Caderno", 25)

	views, err := s.productS.List(s.ctx, s.intruder)
	s.Require().NoError(err)
	s.Empty(views)

	_, err = s.productS.Get(s.ctx, s.intruder, p.ID)
	s.ErrorIs(err, apperr.ErrNotFound)

	_, _, err = s.productS.Update(s.ctx, s.intruder, p.ID, &model.ProductInput{Name: "hijack"})
	s.ErrorIs(err, apperr.ErrNotFound)

	view, err := s.productS.Get(s.ctx, s.tenant, p.ID)
	s.Require().NoError(err)
	s.Equal("Caderno", view.Name)
}
