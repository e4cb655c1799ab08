package inmemory

import (
	"context"
	"testing"
	"time"

	"blogicum/internal/adapter/out/storage"
	"blogicum/internal/model"
	"blogicum/internal/service"

	"github.com/stretchr/testify/require"
)

func TestStorage_CreateAndGetPost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	pub := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	out, err := f.st.CreatePost(ctx, model.Post{
		Title:       "Sunset",
		Text:        "It was orange.",
		PubDate:     pub,
		IsPublished: true,
		CategoryID:  f.open.ID,
		LocationID:  &f.location.ID,
		AuthorID:    f.author.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.ID)
	require.Equal(t, "leo", out.Author)
	require.Equal(t, f.open, out.Category)
	require.Equal(t, "Island", out.LocationName)
	require.WithinDuration(t, time.Now(), out.CreatedAt, time.Second)

	got, err := f.st.GetPostByID(ctx, out.ID)
	require.NoError(t, err)
	require.Equal(t, out, got)
}

func TestStorage_CreatePost_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name  string
		input model.Post
	}{
		{
			name:  "unknown category",
			input: model.Post{Title: "t", Text: "x", CategoryID: 99, AuthorID: f.author.ID},
		},
		{
			name:  "unknown author",
			input: model.Post{Title: "t", Text: "x", CategoryID: f.open.ID, AuthorID: 99},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.st.CreatePost(context.Background(), tt.input)
			require.ErrorIs(t, err, service.ErrNotFound)
		})
	}
}

func TestStorage_GetPostByID_NotFound(t *testing.T) {
	t.Parallel()

	_, err := NewStorage().GetPostByID(context.Background(), 10)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestStorage_UpdatePost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "before", time.Now().Add(-time.Hour), false, f.open.ID)

	p.Title = "after"
	p.IsPublished = true
	p.CategoryID = f.hidden.ID
	updated, err := f.st.UpdatePost(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "after", updated.Title)
	require.True(t, updated.IsPublished)
	require.Equal(t, f.hidden, updated.Category)
	require.Equal(t, p.CreatedAt, updated.CreatedAt)

	_, err = f.st.UpdatePost(ctx, model.Post{ID: 42, CategoryID: f.open.ID})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestStorage_DeletePost_RemovesComments(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "doomed", time.Now().Add(-time.Hour), true, f.open.ID)
	other := f.post(t, "kept", time.Now().Add(-time.Hour), true, f.open.ID)

	_, err := f.st.CreateComment(ctx, model.Comment{PostID: p.ID, AuthorID: f.author.ID, Text: "a"})
	require.NoError(t, err)
	kept, err := f.st.CreateComment(ctx, model.Comment{PostID: other.ID, AuthorID: f.author.ID, Text: "b"})
	require.NoError(t, err)

	require.NoError(t, f.st.DeletePost(ctx, p.ID))

	_, err = f.st.GetPostByID(ctx, p.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	left, err := f.st.GetCommentsByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Empty(t, left)

	got, err := f.st.GetCommentByID(ctx, kept.ID)
	require.NoError(t, err)
	require.Equal(t, kept, got)

	require.ErrorIs(t, f.st.DeletePost(ctx, p.ID), service.ErrNotFound)
}

func TestStorage_GetPosts_AvailabilityFilter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	visible := f.post(t, "visible", now.Add(-time.Hour), true, f.open.ID)
	f.post(t, "draft", now.Add(-time.Hour), false, f.open.ID)
	f.post(t, "scheduled", now.Add(time.Hour), true, f.open.ID)
	f.post(t, "hidden category", now.Add(-time.Hour), true, f.hidden.ID)

	filter := storage.Available(now)

	n, err := f.st.CountPosts(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	posts, err := f.st.GetPosts(ctx, storage.PostQuery{Filter: filter})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, visible.ID, posts[0].ID)

	all, err := f.st.CountPosts(ctx, storage.PostFilter{}.WithAuthor(f.author.ID))
	require.NoError(t, err)
	require.Equal(t, 4, all)
}

func TestStorage_GetPosts_OrderAndWindow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-24 * time.Hour)

	var ids []int64
	for i := 0; i < 5; i++ {
		p := f.post(t, "p", base.Add(time.Duration(i)*time.Hour), true, f.open.ID)
		ids = append(ids, p.ID)
	}

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []int64
	}{
		{name: "all newest first", want: []int64{ids[4], ids[3], ids[2], ids[1], ids[0]}},
		{name: "first window", limit: 2, want: []int64{ids[4], ids[3]}},
		{name: "last partial window", limit: 2, offset: 4, want: []int64{ids[0]}},
		{name: "offset past end", limit: 2, offset: 10, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := f.st.GetPosts(ctx, storage.PostQuery{
				Filter: storage.PostFilter{},
				Order:  storage.OrderPubDateDesc,
				Limit:  tt.limit,
				Offset: tt.offset,
			})
			require.NoError(t, err)

			var got []int64
			for _, p := range posts {
				got = append(got, p.ID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_GetPosts_CommentCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "popular", time.Now().Add(-time.Hour), true, f.open.ID)
	quiet := f.post(t, "quiet", time.Now().Add(-2*time.Hour), true, f.open.ID)

	for i := 0; i < 3; i++ {
		_, err := f.st.CreateComment(ctx, model.Comment{PostID: p.ID, AuthorID: f.author.ID, Text: "c"})
		require.NoError(t, err)
	}

	posts, err := f.st.GetPosts(ctx, storage.PostQuery{WithCommentCount: true})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, p.ID, posts[0].ID)
	require.Equal(t, 3, posts[0].CommentCount)
	require.Equal(t, quiet.ID, posts[1].ID)
	require.Equal(t, 0, posts[1].CommentCount)

	plain, err := f.st.GetPosts(ctx, storage.PostQuery{})
	require.NoError(t, err)
	require.Equal(t, 0, plain[0].CommentCount)
}
