package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogicum/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCommentServiceWithMocks(t *testing.T) (*CommentService, *MockCommentStorage, *MockPostStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	cs := NewMockCommentStorage(ctrl)
	ps := NewMockPostStorage(ctrl)
	return NewCommentService(cs, ps), cs, ps
}

func TestCommentService_AddComment(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		actor   model.User
		postID  int64
		req     CommentRequest
		setup   func(cs *MockCommentStorage, ps *MockPostStorage)
		wantErr error
	}{
		{
			name:    "anonymous",
			postID:  1,
			req:     CommentRequest{Text: "hi"},
			setup:   func(*MockCommentStorage, *MockPostStorage) {},
			wantErr: ErrUnauthorized,
		},
		{
			name:   "missing post",
			actor:  model.User{ID: 2},
			postID: 404,
			req:    CommentRequest{Text: "hi"},
			setup: func(_ *MockCommentStorage, ps *MockPostStorage) {
				ps.EXPECT().GetPostByID(gomock.Any(), int64(404)).Return(model.Post{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "draft of another author is not found",
			actor:  model.User{ID: 2, IsSuperuser: true},
			postID: 1,
			req:    CommentRequest{Text: "hi"},
			setup: func(_ *MockCommentStorage, ps *MockPostStorage) {
				ps.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(model.Post{ID: 1, AuthorID: 7}, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "author comments on own draft",
			actor:  model.User{ID: 2},
			postID: 1,
			req:    CommentRequest{Text: "hi"},
			setup: func(cs *MockCommentStorage, ps *MockPostStorage) {
				ps.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(model.Post{ID: 1, AuthorID: 2}, nil)
				cs.EXPECT().
					CreateComment(gomock.Any(), model.Comment{PostID: 1, AuthorID: 2, Text: "hi"}).
					Return(model.Comment{ID: 5, PostID: 1, AuthorID: 2, Text: "hi", CreatedAt: now}, nil)
			},
		},
		{
			name:   "empty text creates nothing",
			actor:  model.User{ID: 2},
			postID: 1,
			req:    CommentRequest{Text: "  \n "},
			setup: func(_ *MockCommentStorage, ps *MockPostStorage) {
				ps.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(model.Post{ID: 1, IsPublished: true, AuthorID: 7}, nil)
			},
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "storage error",
			actor:  model.User{ID: 2},
			postID: 1,
			req:    CommentRequest{Text: "hi"},
			setup: func(cs *MockCommentStorage, ps *MockPostStorage) {
				ps.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(model.Post{ID: 1, IsPublished: true, AuthorID: 7}, nil)
				cs.EXPECT().
					CreateComment(gomock.Any(), model.Comment{PostID: 1, AuthorID: 2, Text: "hi"}).
					Return(model.Comment{}, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
		{
			name:   "success stamps author and post",
			actor:  model.User{ID: 2},
			postID: 1,
			req:    CommentRequest{Text: " hi "},
			setup: func(cs *MockCommentStorage, ps *MockPostStorage) {
				ps.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(model.Post{ID: 1, IsPublished: true, AuthorID: 7}, nil)
				cs.EXPECT().
					CreateComment(gomock.Any(), model.Comment{PostID: 1, AuthorID: 2, Text: "hi"}).
					Return(model.Comment{ID: 5, PostID: 1, AuthorID: 2, Text: "hi", CreatedAt: now}, nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, cs, ps := newCommentServiceWithMocks(t)
			tt.setup(cs, ps)

			got, err := svc.AddComment(context.Background(), tt.actor, tt.postID, tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidRequest) ||
					errors.Is(tt.wantErr, ErrNotFound) ||
					errors.Is(tt.wantErr, ErrUnauthorized) {
					require.ErrorIs(t, err, tt.wantErr)
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, int64(5), got.ID)
			require.Equal(t, tt.actor.ID, got.AuthorID)
		})
	}
}

func TestCommentService_GetComments(t *testing.T) {
	t.Parallel()

	svc, cs, _ := newCommentServiceWithMocks(t)

	_, err := svc.GetComments(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidRequest)

	cs.EXPECT().
		GetCommentsByPost(gomock.Any(), int64(3)).
		Return([]model.Comment{{ID: 1}, {ID: 2}}, nil)

	got, err := svc.GetComments(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestCommentService_CommentForChange(t *testing.T) {
	t.Parallel()

	stored := model.Comment{ID: 5, PostID: 1, AuthorID: 2, Text: "hi"}

	tests := []struct {
		name      string
		actor     model.User
		postID    int64
		commentID int64
		lookup    bool
		wantErr   error
	}{
		{name: "author", actor: model.User{ID: 2}, postID: 1, commentID: 5, lookup: true},
		{name: "other user", actor: model.User{ID: 3}, postID: 1, commentID: 5, lookup: true, wantErr: ErrForbidden},
		{name: "superuser has no bypass", actor: model.User{ID: 3, IsSuperuser: true}, postID: 1, commentID: 5, lookup: true, wantErr: ErrForbidden},
		{name: "comment of another post", actor: model.User{ID: 2}, postID: 9, commentID: 5, lookup: true, wantErr: ErrNotFound},
		{name: "invalid id", actor: model.User{ID: 2}, postID: 1, commentID: 0, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, cs, _ := newCommentServiceWithMocks(t)
			if tt.lookup {
				cs.EXPECT().GetCommentByID(gomock.Any(), tt.commentID).Return(stored, nil)
			}

			got, err := svc.CommentForChange(context.Background(), tt.actor, tt.postID, tt.commentID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, stored, got)
		})
	}
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()

	stored := model.Comment{ID: 5, PostID: 1, AuthorID: 2, Text: "hi"}

	t.Run("author updates text", func(t *testing.T) {
		t.Parallel()

		svc, cs, _ := newCommentServiceWithMocks(t)
		cs.EXPECT().GetCommentByID(gomock.Any(), int64(5)).Return(stored, nil)

		want := stored
		want.Text = "edited"
		cs.EXPECT().UpdateComment(gomock.Any(), want).Return(want, nil)

		got, err := svc.UpdateComment(context.Background(), model.User{ID: 2}, 1, 5, CommentRequest{Text: "edited"})
		require.NoError(t, err)
		require.Equal(t, "edited", got.Text)
	})

	t.Run("non-author writes nothing", func(t *testing.T) {
		t.Parallel()

		svc, cs, _ := newCommentServiceWithMocks(t)
		cs.EXPECT().GetCommentByID(gomock.Any(), int64(5)).Return(stored, nil)

		_, err := svc.UpdateComment(context.Background(), model.User{ID: 3}, 1, 5, CommentRequest{Text: "edited"})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()

		svc, cs, _ := newCommentServiceWithMocks(t)
		cs.EXPECT().GetCommentByID(gomock.Any(), int64(5)).Return(stored, nil)

		got, err := svc.UpdateComment(context.Background(), model.User{ID: 2}, 1, 5, CommentRequest{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "This field is required.", verr.Fields["text"])
		require.Equal(t, stored, got)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	stored := model.Comment{ID: 5, PostID: 1, AuthorID: 2}

	t.Run("author", func(t *testing.T) {
		t.Parallel()

		svc, cs, _ := newCommentServiceWithMocks(t)
		cs.EXPECT().GetCommentByID(gomock.Any(), int64(5)).Return(stored, nil)
		cs.EXPECT().DeleteComment(gomock.Any(), int64(5)).Return(nil)

		require.NoError(t, svc.DeleteComment(context.Background(), model.User{ID: 2}, 1, 5))
	})

	t.Run("non-author", func(t *testing.T) {
		t.Parallel()

		svc, cs, _ := newCommentServiceWithMocks(t)
		cs.EXPECT().GetCommentByID(gomock.Any(), int64(5)).Return(stored, nil)

		require.ErrorIs(t, svc.DeleteComment(context.Background(), model.User{ID: 7}, 1, 5), ErrForbidden)
	})
}
