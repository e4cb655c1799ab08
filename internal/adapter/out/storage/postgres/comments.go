package postgres

import (
	"context"
	"fmt"

	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type CommentStorage struct {
	conn
}

func NewCommentStorage(db DB, getter *trmpgx.CtxGetter) *CommentStorage {
	return &CommentStorage{conn: conn{db: db, getter: getter}}
}

func selectComments() sq.SelectBuilder {
	return sq.
		Select(
			col(tableinfo.CommentsTableName, tableinfo.CommentIDColumn),
			col(tableinfo.CommentsTableName, tableinfo.CommentPostIDColumn),
			col(tableinfo.CommentsTableName, tableinfo.CommentAuthorIDColumn),
			col(tableinfo.UsersTableName, tableinfo.UserUsernameColumn),
			col(tableinfo.CommentsTableName, tableinfo.CommentTextColumn),
			col(tableinfo.CommentsTableName, tableinfo.CommentCreatedAtColumn),
		).
		From(tableinfo.CommentsTableName).
		Join(fmt.Sprintf("%s ON %s = %s",
			tableinfo.UsersTableName,
			col(tableinfo.UsersTableName, tableinfo.UserIDColumn),
			col(tableinfo.CommentsTableName, tableinfo.CommentAuthorIDColumn),
		)).
		PlaceholderFormat(sq.Dollar)
}

func scanComment(row pgx.Row) (model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author, &c.Text, &c.CreatedAt)
	return c, err
}

func (s *CommentStorage) CreateComment(ctx context.Context, in model.Comment) (model.Comment, error) {
	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentPostIDColumn,
			tableinfo.CommentAuthorIDColumn,
			tableinfo.CommentTextColumn,
		).
		Values(in.PostID, in.AuthorID, in.Text).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.CommentIDColumn, tableinfo.CommentCreatedAtColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.ID, &in.CreatedAt); err != nil {
		return model.Comment{}, mapError("exec insert comment", err)
	}
	return in, nil
}

func (s *CommentStorage) GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error) {
	query, args, err := selectComments().
		Where(sq.Eq{col(tableinfo.CommentsTableName, tableinfo.CommentIDColumn): commentID}).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	c, err := scanComment(s.tr(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return model.Comment{}, mapError("exec select comment by id", err)
	}
	return c, nil
}

// GetCommentsByPost returns comments oldest first.
func (s *CommentStorage) GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	query, args, err := selectComments().
		Where(sq.Eq{col(tableinfo.CommentsTableName, tableinfo.CommentPostIDColumn): postID}).
		OrderBy(
			col(tableinfo.CommentsTableName, tableinfo.CommentCreatedAtColumn)+" ASC",
			col(tableinfo.CommentsTableName, tableinfo.CommentIDColumn)+" ASC",
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := s.tr(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select comments: %w", err)
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CommentStorage) UpdateComment(ctx context.Context, in model.Comment) (model.Comment, error) {
	query, args, err := sq.
		Update(tableinfo.CommentsTableName).
		Set(tableinfo.CommentTextColumn, in.Text).
		Where(sq.Eq{tableinfo.CommentIDColumn: in.ID}).
		Suffix(fmt.Sprintf("RETURNING %s, %s, %s",
			tableinfo.CommentPostIDColumn,
			tableinfo.CommentAuthorIDColumn,
			tableinfo.CommentCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.PostID, &in.AuthorID, &in.CreatedAt); err != nil {
		return model.Comment{}, mapError("exec update comment", err)
	}
	return in, nil
}

func (s *CommentStorage) DeleteComment(ctx context.Context, commentID int64) error {
	n, err := s.deleteWhere(ctx, sq.Eq{tableinfo.CommentIDColumn: commentID})
	if err != nil {
		return err
	}
	if n == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *CommentStorage) DeleteCommentsByPost(ctx context.Context, postID int64) (int64, error) {
	return s.deleteWhere(ctx, sq.Eq{tableinfo.CommentPostIDColumn: postID})
}

func (s *CommentStorage) deleteWhere(ctx context.Context, pred sq.Eq) (int64, error) {
	query, args, err := sq.
		Delete(tableinfo.CommentsTableName).
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tag, err := s.tr(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, mapError("exec delete comments", err)
	}
	return tag.RowsAffected(), nil
}
