package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogicum/internal/adapter/out/storage"
	"blogicum/internal/adapter/out/storage/postgres/mocks"
	"blogicum/internal/model"
	"blogicum/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var postRowColumns = []string{
	"id", "title", "text", "pub_date", "is_published", "category_id", "location_id", "author_id", "created_at",
	"username", "category_id", "category_title", "category_description", "category_slug", "category_is_published",
	"category_created_at", "location_name",
}

func Test_getPostsQueryBuilder(t *testing.T) {
	now := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     storage.PostQuery
		wantSQL   []string
		wantNoSQL []string
		wantArgs  []any
		wantErr   bool
	}{
		{
			name:  "available posts with comment count",
			query: storage.PostQuery{Filter: storage.Available(now), Limit: 10, Offset: 20, WithCommentCount: true},
			wantSQL: []string{
				"categories.is_published = $1",
				"posts.is_published = $2",
				"posts.pub_date <= $3",
				"COUNT(comments.id)",
				"LEFT JOIN comments ON comments.post_id = posts.id",
				"GROUP BY posts.id",
				"ORDER BY posts.pub_date DESC, posts.id DESC",
				"LIMIT 10 OFFSET 20",
			},
			wantArgs: []any{true, true, now},
		},
		{
			name:      "author posts without counts",
			query:     storage.PostQuery{Filter: storage.PostFilter{}.WithAuthor(7), Order: storage.OrderCreatedAtDesc},
			wantSQL:   []string{"posts.author_id = $1", "ORDER BY posts.created_at DESC, posts.id DESC"},
			wantNoSQL: []string{"COUNT(", "LIMIT", "OFFSET", "is_published ="},
			wantArgs:  []any{int64(7)},
		},
		{
			name:    "unknown order",
			query:   storage.PostQuery{Order: storage.Order(42)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb, err := getPostsQueryBuilder(tt.query)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBuildingQuery)
				return
			}
			require.NoError(t, err)

			sql, args, err := qb.ToSql()
			require.NoError(t, err)

			for _, w := range tt.wantSQL {
				require.Contains(t, sql, w)
			}
			for _, w := range tt.wantNoSQL {
				require.NotContains(t, sql, w)
			}
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_applyPostFilter_CategoryPage(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := storage.PostFilter{}.WithCategory(3).WithPublished().WithPublishedUpTo(now)

	sql, args, err := applyPostFilter(selectPosts("COUNT(*)"), filter).ToSql()
	require.NoError(t, err)

	require.Contains(t, sql, "SELECT COUNT(*) FROM posts JOIN users")
	require.Contains(t, sql, "posts.category_id = $3")
	require.NotContains(t, sql, "categories.is_published")
	require.Equal(t, []any{true, now, int64(3)}, args)
}

func TestPostStorage_CreatePost(t *testing.T) {
	now := time.Now()
	pub := now.Add(-time.Hour)
	locationID := int64(5)

	tests := []struct {
		name  string
		input model.Post
		setup func(m *mocks.MockDB)
		check func(t *testing.T, got model.Post, err error)
	}{
		{
			name: "success",
			input: model.Post{
				Title: "hw", Text: "wh", PubDate: pub, IsPublished: true,
				CategoryID: 2, LocationID: &locationID, AuthorID: 4,
			},
			setup: func(m *mocks.MockDB) {
				m.EXPECT().
					QueryRow(
						gomock.Any(),
						gomock.Any(),
						"hw", "wh", pub, true, int64(2), &locationID, int64(4),
					).
					Return(fakeRow{
						scan: func(dest ...any) error {
							*(dest[0].(*int64)) = 1
							*(dest[1].(*time.Time)) = now
							return nil
						},
					})
			},
			check: func(t *testing.T, got model.Post, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(1), got.ID)
				require.Equal(t, "hw", got.Title)
				require.Equal(t, int64(4), got.AuthorID)
				require.Equal(t, now, got.CreatedAt)
			},
		},
		{
			name:  "missing category",
			input: model.Post{Title: "t", Text: "x", PubDate: pub, CategoryID: 99, AuthorID: 4},
			setup: func(m *mocks.MockDB) {
				m.EXPECT().
					QueryRow(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errRow(&pgconn.PgError{Code: "23503"}))
			},
			check: func(t *testing.T, _ model.Post, err error) {
				require.ErrorIs(t, err, service.ErrNotFound)
			},
		},
		{
			name:  "db error",
			input: model.Post{Title: "bad", Text: "post", PubDate: pub, CategoryID: 1, AuthorID: 1},
			setup: func(m *mocks.MockDB) {
				m.EXPECT().
					QueryRow(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errRow(errors.New("db down")))
			},
			check: func(t *testing.T, _ model.Post, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "exec insert post")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := mocks.NewMockDB(ctrl)
			tt.setup(mockDB)

			st := NewPostStorage(mockDB, trmpgx.DefaultCtxGetter)
			got, err := st.CreatePost(context.Background(), tt.input)
			tt.check(t, got, err)
		})
	}
}

func TestPostStorage_UpdatePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockDB(ctrl)
	created := time.Now().Add(-time.Hour)
	pub := time.Now()

	m.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), "new", "body", pub, false, int64(3), (*int64)(nil), int64(10)).
		Return(fakeRow{
			scan: func(dest ...any) error {
				*(dest[0].(*int64)) = 7
				*(dest[1].(*time.Time)) = created
				return nil
			},
		})
	m.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errRow(pgx.ErrNoRows))

	st := NewPostStorage(m, trmpgx.DefaultCtxGetter)

	out, err := st.UpdatePost(context.Background(), model.Post{
		ID: 10, Title: "new", Text: "body", PubDate: pub, CategoryID: 3,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), out.AuthorID)
	require.Equal(t, created, out.CreatedAt)

	_, err = st.UpdatePost(context.Background(), model.Post{ID: 11, CategoryID: 3})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_DeletePost(t *testing.T) {
	tests := []struct {
		name    string
		tag     pgconn.CommandTag
		execErr error
		wantErr error
	}{
		{name: "deleted", tag: pgconn.NewCommandTag("DELETE 1")},
		{name: "missing", tag: pgconn.NewCommandTag("DELETE 0"), wantErr: service.ErrNotFound},
		{name: "db error", execErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks.NewMockDB(ctrl)
			m.EXPECT().
				Exec(gomock.Any(), gomock.Any(), int64(9)).
				Return(tt.tag, tt.execErr)

			st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
			err := st.DeletePost(context.Background(), 9)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.execErr != nil:
				require.ErrorContains(t, err, "exec delete post")
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestPostStorage_GetPostByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		setup func(m *mocks.MockDB)
		check func(t *testing.T, got model.Post, err error)
	}{
		{
			name: "success",
			setup: func(m *mocks.MockDB) {
				m.EXPECT().
					QueryRow(gomock.Any(), gomock.Any(), int64(1)).
					Return(fakeRow{
						scan: func(dest ...any) error {
							*(dest[0].(*int64)) = 1
							*(dest[1].(*string)) = "title"
							*(dest[3].(*time.Time)) = now
							*(dest[4].(*bool)) = true
							*(dest[5].(*int64)) = 2
							*(dest[7].(*int64)) = 4
							*(dest[9].(*string)) = "leo"
							*(dest[10].(*int64)) = 2
							*(dest[13].(*string)) = "travel"
							*(dest[14].(*bool)) = true
							*(dest[16].(*string)) = "Island"
							return nil
						},
					})
			},
			check: func(t *testing.T, got model.Post, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(1), got.ID)
				require.Equal(t, "leo", got.Author)
				require.Equal(t, "travel", got.Category.Slug)
				require.True(t, got.Category.IsPublished)
				require.Equal(t, "Island", got.LocationName)
				require.True(t, got.IsAvailable(now))
			},
		},
		{
			name: "not found",
			setup: func(m *mocks.MockDB) {
				m.EXPECT().
					QueryRow(gomock.Any(), gomock.Any(), int64(1)).
					Return(errRow(pgx.ErrNoRows))
			},
			check: func(t *testing.T, _ model.Post, err error) {
				require.ErrorIs(t, err, service.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks.NewMockDB(ctrl)
			tt.setup(m)

			st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
			got, err := st.GetPostByID(context.Background(), 1)
			tt.check(t, got, err)
		})
	}
}

func TestPostStorage_CountPosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockDB(ctrl)
	m.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), int64(4)).
		Return(fakeRow{
			scan: func(dest ...any) error {
				*(dest[0].(*int64)) = 12
				return nil
			},
		})

	st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
	n, err := st.CountPosts(context.Background(), storage.PostFilter{}.WithAuthor(4))
	require.NoError(t, err)
	require.Equal(t, 12, n)
}

func TestPostStorage_GetPosts(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		query     storage.PostQuery
		setupMock func(m *mocks.MockDB)
		check     func(t *testing.T, got []model.Post, err error)
	}{
		{
			name:  "success with comment count",
			query: storage.PostQuery{Filter: storage.Available(now), Limit: 10, WithCommentCount: true},
			setupMock: func(m *mocks.MockDB) {
				rows := pgxmock.
					NewRows(append(append([]string{}, postRowColumns...), "comment_count")).
					AddRow(int64(2), "t2", "b2", now, true, int64(1), nil, int64(4), now,
						"leo", int64(1), "Travel", "d", "travel", true, now, "Island", int64(3)).
					AddRow(int64(1), "t1", "b1", now.Add(-time.Hour), true, int64(1), nil, int64(4), now,
						"leo", int64(1), "Travel", "d", "travel", true, now, "", int64(0)).
					Kind()

				m.EXPECT().
					Query(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(rows, nil)
			},
			check: func(t *testing.T, got []model.Post, err error) {
				require.NoError(t, err)
				require.Len(t, got, 2)
				require.Equal(t, int64(2), got[0].ID)
				require.Equal(t, 3, got[0].CommentCount)
				require.Equal(t, "Island", got[0].LocationName)
				require.Equal(t, int64(1), got[1].ID)
				require.Nil(t, got[1].LocationID)
				require.Zero(t, got[1].CommentCount)
			},
		},
		{
			name:  "query error",
			query: storage.PostQuery{Filter: storage.Available(now), Limit: 10},
			setupMock: func(m *mocks.MockDB) {
				m.EXPECT().
					Query(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db fail"))
			},
			check: func(t *testing.T, got []model.Post, err error) {
				require.Error(t, err)
				require.Nil(t, got)
			},
		},
		{
			name:  "scan error",
			query: storage.PostQuery{},
			setupMock: func(m *mocks.MockDB) {
				rows := pgxmock.
					NewRows(postRowColumns).
					AddRow(int64(1), "t1", "b1", "oops", true, int64(1), nil, int64(4), now,
						"leo", int64(1), "Travel", "d", "travel", true, now, "").
					Kind()

				m.EXPECT().
					Query(gomock.Any(), gomock.Any()).
					Return(rows, nil)
			},
			check: func(t *testing.T, got []model.Post, err error) {
				require.ErrorContains(t, err, "scan post")
				require.Nil(t, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := mocks.NewMockDB(ctrl)
			tt.setupMock(mockDB)

			st := NewPostStorage(mockDB, trmpgx.DefaultCtxGetter)
			got, err := st.GetPosts(context.Background(), tt.query)
			tt.check(t, got, err)
		})
	}
}
