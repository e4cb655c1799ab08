package postgres

import (
	"context"
	"fmt"

	"blogicum/internal/model"
	"blogicum/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
)

type UserStorage struct {
	conn
}

func NewUserStorage(db DB, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{conn: conn{db: db, getter: getter}}
}

func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserUsernameColumn,
			tableinfo.UserEmailColumn,
			tableinfo.UserFirstNameColumn,
			tableinfo.UserLastNameColumn,
			tableinfo.UserPasswordHashColumn,
			tableinfo.UserIsSuperuserColumn,
		).
		Values(in.Username, in.Email, in.FirstName, in.LastName, in.PasswordHash, in.IsSuperuser).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.UserIDColumn, tableinfo.UserCreatedAtColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.ID, &in.CreatedAt); err != nil {
		return model.User{}, mapError("exec insert user", err)
	}
	return in, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	return s.getOne(ctx, "exec select user by id", sq.Eq{tableinfo.UserIDColumn: userID})
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getOne(ctx, "exec select user by username", sq.Eq{tableinfo.UserUsernameColumn: username})
}

func (s *UserStorage) getOne(ctx context.Context, op string, pred sq.Eq) (model.User, error) {
	query, args, err := sq.
		Select(
			tableinfo.UserIDColumn,
			tableinfo.UserUsernameColumn,
			tableinfo.UserEmailColumn,
			tableinfo.UserFirstNameColumn,
			tableinfo.UserLastNameColumn,
			tableinfo.UserPasswordHashColumn,
			tableinfo.UserIsSuperuserColumn,
			tableinfo.UserCreatedAtColumn,
		).
		From(tableinfo.UsersTableName).
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var u model.User
	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.IsSuperuser,
		&u.CreatedAt,
	); err != nil {
		return model.User{}, mapError(op, err)
	}
	return u, nil
}

func (s *UserStorage) UpdateUser(ctx context.Context, in model.User) (model.User, error) {
	query, args, err := sq.
		Update(tableinfo.UsersTableName).
		Set(tableinfo.UserUsernameColumn, in.Username).
		Set(tableinfo.UserEmailColumn, in.Email).
		Set(tableinfo.UserFirstNameColumn, in.FirstName).
		Set(tableinfo.UserLastNameColumn, in.LastName).
		Where(sq.Eq{tableinfo.UserIDColumn: in.ID}).
		Suffix(fmt.Sprintf("RETURNING %s, %s, %s",
			tableinfo.UserPasswordHashColumn,
			tableinfo.UserIsSuperuserColumn,
			tableinfo.UserCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.PasswordHash, &in.IsSuperuser, &in.CreatedAt); err != nil {
		return model.User{}, mapError("exec update user", err)
	}
	return in, nil
}
