package service

import (
	"context"
	"fmt"
	"strings"

	"blogicum/internal/model"

	"go.opentelemetry.io/otel/attribute"
)

type CommentService struct {
	commentStorage CommentStorage
	postStorage    PostStorage
}

func NewCommentService(commentStorage CommentStorage, postStorage PostStorage) *CommentService {
	return &CommentService{
		commentStorage: commentStorage,
		postStorage:    postStorage,
	}
}

// GetComments returns the comments of a post, oldest first.
func (s *CommentService) GetComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.commentStorage.GetCommentsByPost(ctx, postID)
}

// AddComment stores a comment by actor under an existing post. Unpublished
// posts take comments from their author only.
func (s *CommentService) AddComment(ctx context.Context, actor model.User, postID int64, req CommentRequest) (comment model.Comment, err error) {
	ctx, span := startSpan(ctx, "CommentService.AddComment", attribute.Int64("post.id", postID))
	defer func() { finishSpan(span, err) }()

	if actor.ID <= 0 {
		return model.Comment{}, ErrUnauthorized
	}

	post, err := s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		return model.Comment{}, err
	}
	if !post.IsPublished && post.AuthorID != actor.ID {
		return model.Comment{}, fmt.Errorf("post %d is not published: %w", postID, ErrNotFound)
	}

	req.Text = strings.TrimSpace(req.Text)
	if err := validateRequest(req); err != nil {
		return model.Comment{}, err
	}

	return s.commentStorage.CreateComment(ctx, model.Comment{
		PostID:   postID,
		AuthorID: actor.ID,
		Text:     req.Text,
	})
}

// CommentForChange loads a comment of postID the actor is about to edit or
// delete. Only the comment author passes; superusers get no bypass here.
func (s *CommentService) CommentForChange(ctx context.Context, actor model.User, postID, commentID int64) (model.Comment, error) {
	if commentID <= 0 {
		return model.Comment{}, fmt.Errorf("commentID must be > 0: %w", ErrNotFound)
	}

	comment, err := s.commentStorage.GetCommentByID(ctx, commentID)
	if err != nil {
		return model.Comment{}, err
	}
	if comment.PostID != postID {
		return model.Comment{}, fmt.Errorf("comment %d does not belong to post %d: %w", commentID, postID, ErrNotFound)
	}
	if !CanModify(actor.ID, comment.AuthorID, false) {
		return comment, fmt.Errorf("user %d on comment %d: %w", actor.ID, commentID, ErrForbidden)
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, actor model.User, postID, commentID int64, req CommentRequest) (comment model.Comment, err error) {
	ctx, span := startSpan(ctx, "CommentService.UpdateComment", attribute.Int64("comment.id", commentID))
	defer func() { finishSpan(span, err) }()

	comment, err = s.CommentForChange(ctx, actor, postID, commentID)
	if err != nil {
		return comment, err
	}

	req.Text = strings.TrimSpace(req.Text)
	if err := validateRequest(req); err != nil {
		return comment, err
	}

	comment.Text = req.Text
	return s.commentStorage.UpdateComment(ctx, comment)
}

func (s *CommentService) DeleteComment(ctx context.Context, actor model.User, postID, commentID int64) (err error) {
	ctx, span := startSpan(ctx, "CommentService.DeleteComment", attribute.Int64("comment.id", commentID))
	defer func() { finishSpan(span, err) }()

	if _, err := s.CommentForChange(ctx, actor, postID, commentID); err != nil {
		return err
	}
	return s.commentStorage.DeleteComment(ctx, commentID)
}
