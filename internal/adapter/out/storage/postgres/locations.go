package postgres

import (
	"context"
	"fmt"

	"blogicum/internal/model"
	"blogicum/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
)

type LocationStorage struct {
	conn
}

func NewLocationStorage(db DB, getter *trmpgx.CtxGetter) *LocationStorage {
	return &LocationStorage{conn: conn{db: db, getter: getter}}
}

func (s *LocationStorage) CreateLocation(ctx context.Context, in model.Location) (model.Location, error) {
	query, args, err := sq.
		Insert(tableinfo.LocationsTableName).
		Columns(tableinfo.LocationNameColumn, tableinfo.LocationIsPublishedColumn).
		Values(in.Name, in.IsPublished).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.LocationIDColumn, tableinfo.LocationCreatedAtColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.ID, &in.CreatedAt); err != nil {
		return model.Location{}, mapError("exec insert location", err)
	}
	return in, nil
}

func (s *LocationStorage) GetLocationByID(ctx context.Context, locationID int64) (model.Location, error) {
	query, args, err := sq.
		Select(
			tableinfo.LocationIDColumn,
			tableinfo.LocationNameColumn,
			tableinfo.LocationIsPublishedColumn,
			tableinfo.LocationCreatedAtColumn,
		).
		From(tableinfo.LocationsTableName).
		Where(sq.Eq{tableinfo.LocationIDColumn: locationID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var l model.Location
	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt); err != nil {
		return model.Location{}, mapError("exec select location by id", err)
	}
	return l, nil
}

func (s *LocationStorage) GetLocations(ctx context.Context) ([]model.Location, error) {
	query, args, err := sq.
		Select(
			tableinfo.LocationIDColumn,
			tableinfo.LocationNameColumn,
			tableinfo.LocationIsPublishedColumn,
			tableinfo.LocationCreatedAtColumn,
		).
		From(tableinfo.LocationsTableName).
		OrderBy(tableinfo.LocationNameColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := s.tr(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select locations: %w", err)
	}
	defer rows.Close()

	var out []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
