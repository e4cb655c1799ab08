package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogicum/internal/adapter/out/storage"
	"blogicum/internal/model"
	"blogicum/pkg/pagination"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=posts.go -destination=./storage_mock.go -package=service
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	CountPosts(ctx context.Context, filter storage.PostFilter) (int, error)
	GetPosts(ctx context.Context, q storage.PostQuery) ([]model.Post, error)
}

type CommentStorage interface {
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error)
	GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
	DeleteCommentsByPost(ctx context.Context, postID int64) (int64, error)
}

type CategoryStorage interface {
	CreateCategory(ctx context.Context, category model.Category) (model.Category, error)
	GetCategoryByID(ctx context.Context, categoryID int64) (model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
}

type LocationStorage interface {
	CreateLocation(ctx context.Context, location model.Location) (model.Location, error)
	GetLocationByID(ctx context.Context, locationID int64) (model.Location, error)
	GetLocations(ctx context.Context) ([]model.Location, error)
}

type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
}

// TxManager runs fn in a transaction carried by ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type PostServiceDeps struct {
	Posts      PostStorage
	Comments   CommentStorage
	Categories CategoryStorage
	Locations  LocationStorage
	Users      UserStorage
	TrManager  TxManager
	Paginator  *pagination.Paginator
}

type PostService struct {
	postStorage     PostStorage
	commentStorage  CommentStorage
	categoryStorage CategoryStorage
	locationStorage LocationStorage
	userStorage     UserStorage
	trManager       TxManager
	paginator       *pagination.Paginator
	now             func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for availability checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func NewPostService(deps PostServiceDeps, opts ...Option) *PostService {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if deps.Paginator == nil {
		deps.Paginator = pagination.NewPaginator(pagination.DefaultConfig())
	}
	return &PostService{
		postStorage:     deps.Posts,
		commentStorage:  deps.Comments,
		categoryStorage: deps.Categories,
		locationStorage: deps.Locations,
		userStorage:     deps.Users,
		trManager:       deps.TrManager,
		paginator:       deps.Paginator,
		now:             o.now,
	}
}

// ListAvailable returns the requested page of posts visible to everybody,
// newest first.
func (s *PostService) ListAvailable(ctx context.Context, rawPage string) (page pagination.Page[model.Post], err error) {
	ctx, span := startSpan(ctx, "PostService.ListAvailable")
	defer func() { finishSpan(span, err) }()

	return s.listPage(ctx, storage.Available(s.now()), rawPage)
}

// ListByCategory returns available posts of a published category.
func (s *PostService) ListByCategory(ctx context.Context, slug, rawPage string) (category model.Category, page pagination.Page[model.Post], err error) {
	ctx, span := startSpan(ctx, "PostService.ListByCategory", attribute.String("category.slug", slug))
	defer func() { finishSpan(span, err) }()

	category, err = s.categoryStorage.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return category, page, err
	}
	if !category.IsPublished {
		return model.Category{}, page, fmt.Errorf("category %q is hidden: %w", slug, ErrNotFound)
	}

	filter := storage.PostFilter{}.
		WithCategory(category.ID).
		WithPublished().
		WithPublishedUpTo(s.now())

	page, err = s.listPage(ctx, filter, rawPage)
	return category, page, err
}

// ListByAuthor returns every post written by username, including drafts and
// scheduled ones.
func (s *PostService) ListByAuthor(ctx context.Context, username, rawPage string) (author model.User, page pagination.Page[model.Post], err error) {
	ctx, span := startSpan(ctx, "PostService.ListByAuthor", attribute.String("author.username", username))
	defer func() { finishSpan(span, err) }()

	author, err = s.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		return author, page, err
	}

	page, err = s.listPage(ctx, storage.PostFilter{}.WithAuthor(author.ID), rawPage)
	return author, page, err
}

func (s *PostService) listPage(ctx context.Context, filter storage.PostFilter, rawPage string) (pagination.Page[model.Post], error) {
	total, err := s.postStorage.CountPosts(ctx, filter)
	if err != nil {
		return pagination.Page[model.Post]{}, err
	}

	page := pagination.Resolve[model.Post](s.paginator, rawPage, total)
	if total == 0 {
		return page, nil
	}

	posts, err := s.postStorage.GetPosts(ctx, storage.PostQuery{
		Filter:           filter,
		Order:            storage.OrderPubDateDesc,
		Limit:            page.Limit(),
		Offset:           page.Offset(),
		WithCommentCount: true,
	})
	if err != nil {
		return pagination.Page[model.Post]{}, err
	}
	page.Items = posts
	return page, nil
}

// GetPost returns a post for its detail page. Unpublished posts exist only
// for their author; everyone else gets ErrNotFound.
func (s *PostService) GetPost(ctx context.Context, postID int64, viewer *model.User) (post model.Post, err error) {
	ctx, span := startSpan(ctx, "PostService.GetPost", attribute.Int64("post.id", postID))
	defer func() { finishSpan(span, err) }()

	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrNotFound)
	}

	post, err = s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}

	if !post.IsPublished && (viewer == nil || viewer.ID != post.AuthorID) {
		return model.Post{}, fmt.Errorf("post %d is not published: %w", postID, ErrNotFound)
	}
	return post, nil
}

// PostForChange loads a post the actor is about to edit or delete.
func (s *PostService) PostForChange(ctx context.Context, actor model.User, postID int64) (model.Post, error) {
	post, err := s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if !CanModify(actor.ID, post.AuthorID, actor.IsSuperuser) {
		return post, fmt.Errorf("user %d on post %d: %w", actor.ID, postID, ErrForbidden)
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, actor model.User, req PostRequest) (post model.Post, err error) {
	ctx, span := startSpan(ctx, "PostService.CreatePost", attribute.Int64("actor.id", actor.ID))
	defer func() { finishSpan(span, err) }()

	if actor.ID <= 0 {
		return model.Post{}, ErrUnauthorized
	}

	req = normalizePostRequest(req)
	if err := s.validatePost(ctx, req); err != nil {
		return model.Post{}, err
	}

	post = model.Post{AuthorID: actor.ID}
	applyPostRequest(&post, req, s.now())

	return s.postStorage.CreatePost(ctx, post)
}

func (s *PostService) UpdatePost(ctx context.Context, actor model.User, postID int64, req PostRequest) (post model.Post, err error) {
	ctx, span := startSpan(ctx, "PostService.UpdatePost", attribute.Int64("post.id", postID))
	defer func() { finishSpan(span, err) }()

	post, err = s.PostForChange(ctx, actor, postID)
	if err != nil {
		return post, err
	}

	req = normalizePostRequest(req)
	if err := s.validatePost(ctx, req); err != nil {
		return post, err
	}

	applyPostRequest(&post, req, post.PubDate)
	return s.postStorage.UpdatePost(ctx, post)
}

// DeletePost removes the post and all of its comments atomically.
func (s *PostService) DeletePost(ctx context.Context, actor model.User, postID int64) (err error) {
	ctx, span := startSpan(ctx, "PostService.DeletePost", attribute.Int64("post.id", postID))
	defer func() { finishSpan(span, err) }()

	if _, err := s.PostForChange(ctx, actor, postID); err != nil {
		return err
	}

	return s.trManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.commentStorage.DeleteCommentsByPost(ctx, postID); err != nil {
			return fmt.Errorf("delete comments of post %d: %w", postID, err)
		}
		return s.postStorage.DeletePost(ctx, postID)
	})
}

// validatePost checks the form and that the referenced category and
// location exist.
func (s *PostService) validatePost(ctx context.Context, req PostRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	if _, err := s.categoryStorage.GetCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return newFieldError("category", "Select a valid choice.")
		}
		return err
	}

	if req.LocationID != nil {
		if _, err := s.locationStorage.GetLocationByID(ctx, *req.LocationID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return newFieldError("location", "Select a valid choice.")
			}
			return err
		}
	}
	return nil
}

// applyPostRequest copies form values onto post. A zero publish date falls
// back to defaultPubDate.
func applyPostRequest(post *model.Post, req PostRequest, defaultPubDate time.Time) {
	post.Title = req.Title
	post.Text = req.Text
	post.IsPublished = req.IsPublished
	post.CategoryID = req.CategoryID
	post.LocationID = req.LocationID
	post.PubDate = req.PubDate
	if post.PubDate.IsZero() {
		post.PubDate = defaultPubDate
	}
}
