package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/pkg/pagination"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PostService interface {
	ListAvailable(ctx context.Context, rawPage string) (pagination.Page[model.Post], error)
	ListByCategory(ctx context.Context, slug, rawPage string) (model.Category, pagination.Page[model.Post], error)
	ListByAuthor(ctx context.Context, username, rawPage string) (model.User, pagination.Page[model.Post], error)
	GetPost(ctx context.Context, postID int64, viewer *model.User) (model.Post, error)
	PostForChange(ctx context.Context, actor model.User, postID int64) (model.Post, error)
	CreatePost(ctx context.Context, actor model.User, req service.PostRequest) (model.Post, error)
	UpdatePost(ctx context.Context, actor model.User, postID int64, req service.PostRequest) (model.Post, error)
	DeletePost(ctx context.Context, actor model.User, postID int64) error
}

type CommentService interface {
	GetComments(ctx context.Context, postID int64) ([]model.Comment, error)
	AddComment(ctx context.Context, actor model.User, postID int64, req service.CommentRequest) (model.Comment, error)
	CommentForChange(ctx context.Context, actor model.User, postID, commentID int64) (model.Comment, error)
	UpdateComment(ctx context.Context, actor model.User, postID, commentID int64, req service.CommentRequest) (model.Comment, error)
	DeleteComment(ctx context.Context, actor model.User, postID, commentID int64) error
}

type UserService interface {
	Register(ctx context.Context, req service.RegisterRequest) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	UpdateProfile(ctx context.Context, actor model.User, req service.ProfileRequest) (model.User, error)
}

type CategoryService interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetLocations(ctx context.Context) ([]model.Location, error)
	CreateCategory(ctx context.Context, actor model.User, req service.CategoryRequest) (model.Category, error)
	CreateLocation(ctx context.Context, actor model.User, req service.LocationRequest) (model.Location, error)
}

type Deps struct {
	Posts      PostService
	Comments   CommentService
	Users      UserService
	Categories CategoryService
	Sessions   *Sessions
	Logger     *slog.Logger
	// Registry receives the HTTP metrics and is served on /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
}

type Handler struct {
	posts      PostService
	comments   CommentService
	users      UserService
	categories CategoryService
	sessions   *Sessions
	log        *slog.Logger
	registry   *prometheus.Registry
	metrics    *httpMetrics
	views      *views
}

func NewHandler(deps Deps) (*Handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	return &Handler{
		posts:      deps.Posts,
		comments:   deps.Comments,
		users:      deps.Users,
		categories: deps.Categories,
		sessions:   deps.Sessions,
		log:        deps.Logger,
		registry:   deps.Registry,
		metrics:    newHTTPMetrics(deps.Registry),
		views:      v,
	}, nil
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.middleware)
	r.Use(h.loadUser)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	r.Get("/", h.index)
	r.Get("/category/{slug}", h.categoryPosts)
	r.Get("/profile/{username}", h.profile)
	r.Get("/posts/{postID}", h.postDetail)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/registration", h.registration)
		r.Post("/registration", h.registration)
		r.Get("/login", h.login)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Post("/posts/{postID}", h.addComment)
		r.Post("/posts/{postID}/comment", h.addComment)

		r.Get("/posts/create", h.createPost)
		r.Post("/posts/create", h.createPost)
		r.Get("/posts/{postID}/edit", h.editPost)
		r.Post("/posts/{postID}/edit", h.editPost)
		r.Get("/posts/{postID}/delete", h.deletePost)
		r.Post("/posts/{postID}/delete", h.deletePost)

		r.Get("/posts/{postID}/edit_comment/{commentID}", h.editComment)
		r.Post("/posts/{postID}/edit_comment/{commentID}", h.editComment)
		r.Get("/posts/{postID}/delete_comment/{commentID}", h.deleteComment)
		r.Post("/posts/{postID}/delete_comment/{commentID}", h.deleteComment)

		r.Get("/profile/edit", h.editProfile)
		r.Post("/profile/edit", h.editProfile)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSuperuser)

			r.Get("/manage/categories/new", h.createCategory)
			r.Post("/manage/categories/new", h.createCategory)
			r.Get("/manage/locations/new", h.createLocation)
			r.Post("/manage/locations/new", h.createLocation)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.notFound(w, r)
	})

	return r
}
