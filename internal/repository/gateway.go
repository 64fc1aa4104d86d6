package repository

import (
	"context"
	"fmt"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entity describes a table the gateway may touch and the filter column that
// every read and write against it must carry.
type Entity struct {
	Table string
	// Scope is user_id for tenant tables and the parent id for junctions.
	Scope string
	model func() interface{}
}

var (
	Materials        = Entity{"insumos", "user_id", func() interface{} { return &model.RawMaterial{} }}
	Products         = Entity{"produtos", "user_id", func() interface{} { return &model.Product{} }}
	ProductMaterials = Entity{"produto_insumo", "produto_id", func() interface{} { return &model.ProductMaterial{} }}
	Sales            = Entity{"vendas", "user_id", func() interface{} { return &model.Sale{} }}
	SaleProducts     = Entity{"venda_produto", "venda_id", func() interface{} { return &model.SaleProduct{} }}
)

// Filters are equality conditions, column -> value.
type Filters map[string]interface{}

// FindOption shapes a gateway read.
type FindOption func(*gorm.DB) *gorm.DB

// Preload joins an association declared on the destination model. Extra
// conditions restrict which associated rows are attached.
func Preload(association string, conds ...interface{}) FindOption {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(association, conds...) }
}

// OrderBy sets the result order, e.g. "created_at desc".
func OrderBy(expr string) FindOption {
	return func(db *gorm.DB) *gorm.DB { return db.Order(expr) }
}

// Gateway is the only path from the service layer to storage. Every failure
// comes back as an apperr storage error carrying the driver's message.
type Gateway interface {
	Find(ctx context.Context, e Entity, f Filters, dest interface{}, opts ...FindOption) error
	Insert(ctx context.Context, e Entity, rows interface{}) error
	Update(ctx context.Context, e Entity, f Filters, patch map[string]interface{}) (int64, error)
	Remove(ctx context.Context, e Entity, f Filters) (int64, error)
	Decrement(ctx context.Context, e Entity, f Filters, column string, delta float64) (int64, error)
}

type gormGateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) Gateway {
	return &gormGateway{db}
}

func (g *gormGateway) scoped(ctx context.Context, e Entity, f Filters) (*gorm.DB, error) {
	if v, ok := f[e.Scope]; !ok || v == nil {
		return nil, apperr.Storage(fmt.Errorf("%s: refusing unscoped query, missing %s filter", e.Table, e.Scope))
	}
	return g.db.WithContext(ctx).Model(e.model()).Where(map[string]interface{}(f)), nil
}

func (g *gormGateway) Find(ctx context.Context, e Entity, f Filters, dest interface{}, opts ...FindOption) error {
	q, err := g.scoped(ctx, e, f)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		q = opt(q)
	}
	return apperr.Storage(q.Find(dest).Error)
}

// Insert writes rows as given; associations set on them are not upserted.
func (g *gormGateway) Insert(ctx context.Context, e Entity, rows interface{}) error {
	err := g.db.WithContext(ctx).Omit(clause.Associations).Create(rows).Error
	return apperr.Storage(err)
}

func (g *gormGateway) Update(ctx context.Context, e Entity, f Filters, patch map[string]interface{}) (int64, error) {
	q, err := g.scoped(ctx, e, f)
	if err != nil {
		return 0, err
	}
	res := q.Updates(patch)
	return res.RowsAffected, apperr.Storage(res.Error)
}

func (g *gormGateway) Remove(ctx context.Context, e Entity, f Filters) (int64, error) {
	q, err := g.scoped(ctx, e, f)
	if err != nil {
		return 0, err
	}
	res := q.Delete(e.model())
	return res.RowsAffected, apperr.Storage(res.Error)
}

// Decrement lowers column by delta in one statement, flooring at zero.
func (g *gormGateway) Decrement(ctx context.Context, e Entity, f Filters, column string, delta float64) (int64, error) {
	q, err := g.scoped(ctx, e, f)
	if err != nil {
		return 0, err
	}
	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s > ? THEN %[1]s - ? ELSE 0 END", column), delta, delta)
	res := q.UpdateColumn(column, expr)
	return res.RowsAffected, apperr.Storage(res.Error)
}
