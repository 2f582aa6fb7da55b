package sqlstore

import (
	"context"
	"strings"

	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/product"
	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"
)

var productCols = []string{"id", "name", "description", "price", "quantity", "category", "created_at", "updated_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyFilter(sb *sqlbuilder.SelectBuilder, f product.Filter) {
	if f.Category != "" {
		sb.Where(sb.Equal("category", f.Category))
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		sb.Where("LOWER(name) LIKE " + sb.Var(pattern) + ` ESCAPE '\'`)
	}
}

func (s *Store) ListProducts(ctx context.Context, f product.Filter) ([]model.ProductDB, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(productCols...).From(productsTable)
	applyFilter(sb, f)
	sb.OrderBy("created_at DESC", "id ASC")
	if f.Limit > 0 {
		sb.Limit(f.Limit).Offset(f.Offset)
	}

	query, args := sb.BuildWithFlavor(s.flavor)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query list products")
	}
	defer rows.Close()

	out := []model.ProductDB{}
	for rows.Next() {
		var p model.ProductDB
		if err := rows.StructScan(&p); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "iterate products")
}

func (s *Store) CountProducts(ctx context.Context, f product.Filter) (int, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("COUNT(1)").From(productsTable)
	applyFilter(sb, f)

	query, args := sb.BuildWithFlavor(s.flavor)
	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return total, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*model.ProductDB, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(productCols...).
		From(productsTable).
		Where(sb.Equal("id", id)).
		Limit(1)

	var p model.ProductDB
	if err := s.get(ctx, &p, sb, "get product by id"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *model.ProductDB) error {
	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto(productsTable).
		Cols(productCols...).
		Values(p.ID, p.Name, p.Description, p.Price, p.Quantity, p.Category, p.CreatedAt, p.UpdatedAt)

	_, err := s.exec(ctx, ib, "insert product")
	return err
}

func (s *Store) UpdateProduct(ctx context.Context, p *model.ProductDB) error {
	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update(productsTable).
		Set(
			ub.Assign("name", p.Name),
			ub.Assign("description", p.Description),
			ub.Assign("price", p.Price),
			ub.Assign("quantity", p.Quantity),
			ub.Assign("category", p.Category),
			ub.Assign("updated_at", p.UpdatedAt),
		).
		Where(ub.Equal("id", p.ID))

	res, err := s.exec(ctx, ub, "update product")
	if err != nil {
		return err
	}
	return mustAffect(res, "update product")
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom(productsTable).Where(db.Equal("id", id))

	res, err := s.exec(ctx, db, "delete product")
	if err != nil {
		return err
	}
	return mustAffect(res, "delete product")
}
