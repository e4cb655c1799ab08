package postgres

import (
	"context"
	"fmt"

	"blogicum/internal/adapter/out/storage"
	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type PostStorage struct {
	conn
}

func NewPostStorage(db DB, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{conn: conn{db: db, getter: getter}}
}

var postColumns = []string{
	col(tableinfo.PostsTableName, tableinfo.PostIDColumn),
	col(tableinfo.PostsTableName, tableinfo.PostTitleColumn),
	col(tableinfo.PostsTableName, tableinfo.PostTextColumn),
	col(tableinfo.PostsTableName, tableinfo.PostPubDateColumn),
	col(tableinfo.PostsTableName, tableinfo.PostIsPublishedColumn),
	col(tableinfo.PostsTableName, tableinfo.PostCategoryIDColumn),
	col(tableinfo.PostsTableName, tableinfo.PostLocationIDColumn),
	col(tableinfo.PostsTableName, tableinfo.PostAuthorIDColumn),
	col(tableinfo.PostsTableName, tableinfo.PostCreatedAtColumn),
	col(tableinfo.UsersTableName, tableinfo.UserUsernameColumn),
	col(tableinfo.CategoriesTableName, tableinfo.CategoryIDColumn),
	col(tableinfo.CategoriesTableName, tableinfo.CategoryTitleColumn),
	col(tableinfo.CategoriesTableName, tableinfo.CategoryDescriptionColumn),
	col(tableinfo.CategoriesTableName, tableinfo.CategorySlugColumn),
	col(tableinfo.CategoriesTableName, tableinfo.CategoryIsPublishedColumn),
	col(tableinfo.CategoriesTableName, tableinfo.CategoryCreatedAtColumn),
	fmt.Sprintf("COALESCE(%s, '')", col(tableinfo.LocationsTableName, tableinfo.LocationNameColumn)),
}

func col(table, column string) string {
	return tableinfo.Qualified(table, column)
}

// selectPosts joins everything a post card shows: author, category and
// location name.
func selectPosts(columns ...string) sq.SelectBuilder {
	return sq.
		Select(columns...).
		From(tableinfo.PostsTableName).
		Join(fmt.Sprintf("%s ON %s = %s",
			tableinfo.UsersTableName,
			col(tableinfo.UsersTableName, tableinfo.UserIDColumn),
			col(tableinfo.PostsTableName, tableinfo.PostAuthorIDColumn),
		)).
		Join(fmt.Sprintf("%s ON %s = %s",
			tableinfo.CategoriesTableName,
			col(tableinfo.CategoriesTableName, tableinfo.CategoryIDColumn),
			col(tableinfo.PostsTableName, tableinfo.PostCategoryIDColumn),
		)).
		LeftJoin(fmt.Sprintf("%s ON %s = %s",
			tableinfo.LocationsTableName,
			col(tableinfo.LocationsTableName, tableinfo.LocationIDColumn),
			col(tableinfo.PostsTableName, tableinfo.PostLocationIDColumn),
		)).
		PlaceholderFormat(sq.Dollar)
}

func applyPostFilter(b sq.SelectBuilder, f storage.PostFilter) sq.SelectBuilder {
	if f.CategoryPublished {
		b = b.Where(sq.Eq{col(tableinfo.CategoriesTableName, tableinfo.CategoryIsPublishedColumn): true})
	}
	if f.Published {
		b = b.Where(sq.Eq{col(tableinfo.PostsTableName, tableinfo.PostIsPublishedColumn): true})
	}
	if f.PublishedBefore != nil {
		b = b.Where(sq.LtOrEq{col(tableinfo.PostsTableName, tableinfo.PostPubDateColumn): *f.PublishedBefore})
	}
	if f.CategoryID != nil {
		b = b.Where(sq.Eq{col(tableinfo.PostsTableName, tableinfo.PostCategoryIDColumn): *f.CategoryID})
	}
	if f.AuthorID != nil {
		b = b.Where(sq.Eq{col(tableinfo.PostsTableName, tableinfo.PostAuthorIDColumn): *f.AuthorID})
	}
	return b
}

func getPostsQueryBuilder(q storage.PostQuery) (sq.SelectBuilder, error) {
	b := selectPosts(postColumns...)

	if q.WithCommentCount {
		b = b.
			Column(fmt.Sprintf("COUNT(%s)", col(tableinfo.CommentsTableName, tableinfo.CommentIDColumn))).
			LeftJoin(fmt.Sprintf("%s ON %s = %s",
				tableinfo.CommentsTableName,
				col(tableinfo.CommentsTableName, tableinfo.CommentPostIDColumn),
				col(tableinfo.PostsTableName, tableinfo.PostIDColumn),
			)).
			GroupBy(
				col(tableinfo.PostsTableName, tableinfo.PostIDColumn),
				col(tableinfo.UsersTableName, tableinfo.UserIDColumn),
				col(tableinfo.CategoriesTableName, tableinfo.CategoryIDColumn),
				col(tableinfo.LocationsTableName, tableinfo.LocationIDColumn),
			)
	}

	b = applyPostFilter(b, q.Filter)

	switch q.Order {
	case storage.OrderPubDateDesc:
		b = b.OrderBy(
			col(tableinfo.PostsTableName, tableinfo.PostPubDateColumn)+" DESC",
			col(tableinfo.PostsTableName, tableinfo.PostIDColumn)+" DESC",
		)
	case storage.OrderCreatedAtDesc:
		b = b.OrderBy(
			col(tableinfo.PostsTableName, tableinfo.PostCreatedAtColumn)+" DESC",
			col(tableinfo.PostsTableName, tableinfo.PostIDColumn)+" DESC",
		)
	default:
		return b, fmt.Errorf("%w: unknown order %d", ErrBuildingQuery, q.Order)
	}

	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		b = b.Offset(uint64(q.Offset))
	}
	return b, nil
}

func scanPost(row pgx.Row, withCommentCount bool) (model.Post, error) {
	var (
		p     model.Post
		count int64
	)
	dest := []any{
		&p.ID,
		&p.Title,
		&p.Text,
		&p.PubDate,
		&p.IsPublished,
		&p.CategoryID,
		&p.LocationID,
		&p.AuthorID,
		&p.CreatedAt,
		&p.Author,
		&p.Category.ID,
		&p.Category.Title,
		&p.Category.Description,
		&p.Category.Slug,
		&p.Category.IsPublished,
		&p.Category.CreatedAt,
		&p.LocationName,
	}
	if withCommentCount {
		dest = append(dest, &count)
	}
	if err := row.Scan(dest...); err != nil {
		return model.Post{}, err
	}
	p.CommentCount = int(count)
	return p, nil
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTitleColumn,
			tableinfo.PostTextColumn,
			tableinfo.PostPubDateColumn,
			tableinfo.PostIsPublishedColumn,
			tableinfo.PostCategoryIDColumn,
			tableinfo.PostLocationIDColumn,
			tableinfo.PostAuthorIDColumn,
		).
		Values(in.Title, in.Text, in.PubDate, in.IsPublished, in.CategoryID, in.LocationID, in.AuthorID).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.PostIDColumn, tableinfo.PostCreatedAtColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.ID, &in.CreatedAt); err != nil {
		return model.Post{}, mapError("exec insert post", err)
	}
	return in, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Update(tableinfo.PostsTableName).
		Set(tableinfo.PostTitleColumn, in.Title).
		Set(tableinfo.PostTextColumn, in.Text).
		Set(tableinfo.PostPubDateColumn, in.PubDate).
		Set(tableinfo.PostIsPublishedColumn, in.IsPublished).
		Set(tableinfo.PostCategoryIDColumn, in.CategoryID).
		Set(tableinfo.PostLocationIDColumn, in.LocationID).
		Where(sq.Eq{tableinfo.PostIDColumn: in.ID}).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.PostAuthorIDColumn, tableinfo.PostCreatedAtColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.AuthorID, &in.CreatedAt); err != nil {
		return model.Post{}, mapError("exec update post", err)
	}
	return in, nil
}

func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tag, err := s.tr(ctx).Exec(ctx, query, args...)
	if err != nil {
		return mapError("exec delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	query, args, err := selectPosts(postColumns...).
		Where(sq.Eq{col(tableinfo.PostsTableName, tableinfo.PostIDColumn): postID}).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	p, err := scanPost(s.tr(ctx).QueryRow(ctx, query, args...), false)
	if err != nil {
		return model.Post{}, mapError("exec select post by id", err)
	}
	return p, nil
}

func (s *PostStorage) CountPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	query, args, err := applyPostFilter(selectPosts("COUNT(*)"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var n int64
	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError("exec count posts", err)
	}
	return int(n), nil
}

func (s *PostStorage) GetPosts(ctx context.Context, q storage.PostQuery) ([]model.Post, error) {
	qb, err := getPostsQueryBuilder(q)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := s.tr(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, q.Limit)
	for rows.Next() {
		p, err := scanPost(rows, q.WithCommentCount)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
