package postgres

import (
	"context"
	"fmt"

	"blogicum/internal/model"
	"blogicum/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type CategoryStorage struct {
	conn
}

func NewCategoryStorage(db DB, getter *trmpgx.CtxGetter) *CategoryStorage {
	return &CategoryStorage{conn: conn{db: db, getter: getter}}
}

var categoryColumns = []string{
	tableinfo.CategoryIDColumn,
	tableinfo.CategoryTitleColumn,
	tableinfo.CategoryDescriptionColumn,
	tableinfo.CategorySlugColumn,
	tableinfo.CategoryIsPublishedColumn,
	tableinfo.CategoryCreatedAtColumn,
}

func scanCategory(row pgx.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Slug, &c.IsPublished, &c.CreatedAt)
	return c, err
}

func (s *CategoryStorage) CreateCategory(ctx context.Context, in model.Category) (model.Category, error) {
	query, args, err := sq.
		Insert(tableinfo.CategoriesTableName).
		Columns(
			tableinfo.CategoryTitleColumn,
			tableinfo.CategoryDescriptionColumn,
			tableinfo.CategorySlugColumn,
			tableinfo.CategoryIsPublishedColumn,
		).
		Values(in.Title, in.Description, in.Slug, in.IsPublished).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.CategoryIDColumn, tableinfo.CategoryCreatedAtColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Category{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.ID, &in.CreatedAt); err != nil {
		return model.Category{}, mapError("exec insert category", err)
	}
	return in, nil
}

func (s *CategoryStorage) GetCategoryByID(ctx context.Context, categoryID int64) (model.Category, error) {
	return s.getOne(ctx, "exec select category by id", sq.Eq{tableinfo.CategoryIDColumn: categoryID})
}

func (s *CategoryStorage) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	return s.getOne(ctx, "exec select category by slug", sq.Eq{tableinfo.CategorySlugColumn: slug})
}

func (s *CategoryStorage) getOne(ctx context.Context, op string, pred sq.Eq) (model.Category, error) {
	query, args, err := sq.
		Select(categoryColumns...).
		From(tableinfo.CategoriesTableName).
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Category{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	c, err := scanCategory(s.tr(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return model.Category{}, mapError(op, err)
	}
	return c, nil
}

func (s *CategoryStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	query, args, err := sq.
		Select(categoryColumns...).
		From(tableinfo.CategoriesTableName).
		OrderBy(tableinfo.CategoryTitleColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := s.tr(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
