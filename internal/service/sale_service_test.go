package service

import (
	"time"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"
	"go-papelaria-api/internal/repository"

	"github.com/google/uuid"
)

func sold(p *model.Product, qty float64) model.SaleLineInput {
	return model.SaleLineInput{ID: p.ID, Quantity: qty}
}

func (s *ServiceSuite) TestSaleConsumesStock() {
	m1 := s.material(s.tenant, "Papel", 10)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	_, report, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 75, Products: []model.SaleLineInput{sold(p, 3)}})
	s.Require().NoError(err)
	s.True(report.OK())
	s.InDelta(4, s.stockOf(m1.ID), 1e-9)
	s.Contains(s.events.actions(), "stock_consumed")
}

func (s *ServiceSuite) TestSaleStockNeverGoesNegative() {
	m1 := s.material(s.tenant, "Papel", 4)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	_, _, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 75, Products: []model.SaleLineInput{sold(p, 3)}})
	s.Require().NoError(err)
	s.Zero(s.stockOf(m1.ID))
}

func (s *ServiceSuite) TestSaleRoundTripsTotalAndUnitPrices() {
	m1 := s.material(s.tenant, "Papel", 100)
	caderno := s.product(s.tenant, "Caderno", 25, uses(m1, 1))
	agenda := s.product(s.tenant, "Agenda", 40)
	when := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

	discounted := sold(caderno, 2)
	discounted.UnitPrice = price(20)
	sale, report, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{
		Total:    80,
		Date:     &when,
		Products: []model.SaleLineInput{discounted, sold(agenda, 1)},
	})
	s.Require().NoError(err)
	s.True(report.OK())

	views, err := s.saleS.List(s.ctx, s.tenant)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	got := views[0]
	s.Equal(sale.ID, got.ID)
	s.InDelta(80, got.Total, 1e-9)
	s.True(when.Equal(got.Date))

	prices := map[uuid.UUID]float64{}
	for _, l := range got.Products {
		prices[l.ID] = l.UnitPrice
	}
	// agenda was sent without a price; its stored preco_venda is not copied in
	s.Equal(map[uuid.UUID]float64{caderno.ID: 20, agenda.ID: 0}, prices)
}

func (s *ServiceSuite) TestSaleKeepsSubmittedZeroPrice() {
	brinde := s.product(s.tenant, "Caderno", 25)
	line := sold(brinde, 1)
	line.UnitPrice = price(0)

	sale, report, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 0, Products: []model.SaleLineInput{line}})
	s.Require().NoError(err)
	s.True(report.OK())

	view, err := s.saleS.Get(s.ctx, s.tenant, sale.ID)
	s.Require().NoError(err)
	s.InDelta(0, view.Total, 1e-9)
	s.Require().Len(view.Products, 1)
	s.InDelta(0, view.Products[0].UnitPrice, 1e-9)
	s.InDelta(25, view.Products[0].SalePrice, 1e-9)
}

func (s *ServiceSuite) TestSaleSkipsForeignProductLine() {
	theirs := s.material(s.intruder, "Papel", 10)
	foreign := s.product(s.intruder, "Caderno", 25, uses(theirs, 2))
	mine := s.product(s.tenant, "Agenda", 40)

	sale, report, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{
		Total:    40,
		Products: []model.SaleLineInput{sold(foreign, 3), sold(mine, 1)},
	})
	s.Require().NoError(err)
	s.Require().Len(report.Failures, 1)
	s.Equal("verify_product", report.Failures[0].Step)
	s.Equal(foreign.ID.String(), report.Failures[0].Ref)

	view, err := s.saleS.Get(s.ctx, s.tenant, sale.ID)
	s.Require().NoError(err)
	s.Require().Len(view.Products, 1)
	s.Equal(mine.ID, view.Products[0].ID)

	m, err := s.materials.FindByID(s.ctx, s.intruder, theirs.ID)
	s.Require().NoError(err)
	s.InDelta(10, m.Quantity, 1e-9)
}

func (s *ServiceSuite) TestSaleLineFailureStillConsumesStock() {
	m1 := s.material(s.tenant, "Papel", 10)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	s.gw.insertErr = func(e repository.Entity) error {
		if e.Table == repository.SaleProducts.Table {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	sale, report, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 25, Products: []model.SaleLineInput{sold(p, 1)}})
	s.gw.reset()

	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, sale.ID)
	s.Require().Len(report.Failures, 1)
	s.Equal("insert_sale_line", report.Failures[0].Step)
	s.InDelta(8, s.stockOf(m1.ID), 1e-9)
}

func (s *ServiceSuite) TestSaleAbortsWhenSaleInsertFails() {
	m1 := s.material(s.tenant, "Papel", 10)
	p := s.product(s.tenant, "Caderno", 25, uses(m1, 2))

	s.gw.insertErr = func(e repository.Entity) error {
		if e.Table == repository.Sales.Table {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	_, _, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 25, Products: []model.SaleLineInput{sold(p, 1)}})
	s.gw.reset()

	s.ErrorIs(err, apperr.ErrStorage)
	s.InDelta(10, s.stockOf(m1.ID), 1e-9)
}

func (s *ServiceSuite) TestUpdateSaleReplacesLinesWithoutTouchingStock() {
	m1 := s.material(s.tenant, "Papel", 10)
	caderno := s.product(s.tenant, "Caderno", 25, uses(m1, 2))
	agenda := s.product(s.tenant, "Agenda", 40, uses(m1, 1))

	sale, _, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 25, Products: []model.SaleLineInput{sold(caderno, 1)}})
	s.Require().NoError(err)
	s.InDelta(8, s.stockOf(m1.ID), 1e-9)

	updated, report, err := s.saleS.Update(s.ctx, s.tenant, sale.ID, &model.SaleInput{
		Total:    120,
		Products: []model.SaleLineInput{sold(agenda, 3)},
	})
	s.Require().NoError(err)
	s.True(report.OK())
	s.InDelta(120, updated.Total, 1e-9)

	view, err := s.saleS.Get(s.ctx, s.tenant, sale.ID)
	s.Require().NoError(err)
	s.Require().Len(view.Products, 1)
	s.Equal(agenda.ID, view.Products[0].ID)
	s.InDelta(0, view.Products[0].UnitPrice, 1e-9)
	s.InDelta(8, s.stockOf(m1.ID), 1e-9)
}

func (s *ServiceSuite) TestUpdateSaleOfAnotherTenant() {
	p := s.product(s.tenant, "Agenda", 40)
	sale, _, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 40, Products: []model.SaleLineInput{sold(p, 1)}})
	s.Require().NoError(err)

	_, _, err = s.saleS.Update(s.ctx, s.intruder, sale.ID, &model.SaleInput{Total: 1})
	s.ErrorIs(err, apperr.ErrNotFound)

	view, err := s.saleS.Get(s.ctx, s.tenant, sale.ID)
	s.Require().NoError(err)
	s.InDelta(40, view.Total, 1e-9)
	s.Len(view.Products, 1)

	list, err := s.saleS.List(s.ctx, s.intruder)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceSuite) TestUpdateSaleKeepsLinesWhenDeleteFails() {
	caderno := s.product(s.tenant, "Caderno", 25)
	agenda := s.product(s.tenant, "Agenda", 40)
	sale, _, err := s.saleS.Create(s.ctx, s.tenant, &model.SaleInput{Total: 25, Products: []model.SaleLineInput{sold(caderno, 1)}})
	s.Require().NoError(err)

	s.gw.removeErr = func(e repository.Entity) error {
		if e.Table == repository.SaleProducts.Table {
			return apperr.Storage(errInjected)
		}
		return nil
	}
	_, report, err := s.saleS.Update(s.ctx, s.tenant, sale.ID, &model.SaleInput{Total: 40, Products: []model.SaleLineInput{sold(agenda, 1)}})
	s.gw.reset()

	s.Require().NoError(err)
	s.Require().Len(report.Failures, 1)
	s.Equal("delete_lines", report.Failures[0].Step)

	view, err := s.saleS.Get(s.ctx, s.tenant, sale.ID)
	s.Require().NoError(err)
	s.Require().Len(view.Products, 1)
	s.Equal(caderno.ID, view.Products[0].ID)
}
