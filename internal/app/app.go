package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"blogicum/config"
	"blogicum/internal/adapter/in/web"
	memstore "blogicum/internal/adapter/out/storage/inmemory"
	pgstore "blogicum/internal/adapter/out/storage/postgres"
	"blogicum/internal/adapter/out/storage/postgres/migrations"
	"blogicum/internal/service"
	"blogicum/pkg/logger"
	"blogicum/pkg/pagination"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool
}

type storages struct {
	posts      service.PostStorage
	comments   service.CommentStorage
	categories service.CategoryStorage
	locations  service.LocationStorage
	users      service.UserStorage
	trManager  service.TxManager
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		st   storages
		pool *pgxpool.Pool
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		if err := migrations.Up(cfg.Postgres.GetMigrateDSN()); err != nil {
			return nil, err
		}
		log.Info("migrations applied")

		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		st = storages{
			posts:      pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter),
			comments:   pgstore.NewCommentStorage(pool, trmpgx.DefaultCtxGetter),
			categories: pgstore.NewCategoryStorage(pool, trmpgx.DefaultCtxGetter),
			locations:  pgstore.NewLocationStorage(pool, trmpgx.DefaultCtxGetter),
			users:      pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter),
			trManager:  manager.Must(trmpgx.NewDefaultFactory(pool)),
		}

	default:
		mem := memstore.NewStorage()
		st = storages{
			posts:      mem,
			comments:   mem,
			categories: mem,
			locations:  mem,
			users:      mem,
			trManager:  memstore.TxManager{},
		}
	}

	postSvc := service.NewPostService(service.PostServiceDeps{
		Posts:      st.posts,
		Comments:   st.comments,
		Categories: st.categories,
		Locations:  st.locations,
		Users:      st.users,
		TrManager:  st.trManager,
		Paginator:  pagination.NewPaginator(pagination.Config{PageSize: cfg.Pagination.PostsPerPage}),
	})
	commentSvc := service.NewCommentService(st.comments, st.posts)
	userSvc := service.NewUserService(st.users)
	categorySvc := service.NewCategoryService(st.categories, st.locations)

	if cfg.Admin.Enabled() {
		admin, err := userSvc.EnsureSuperuser(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			closePool(pool)
			return nil, fmt.Errorf("ensure superuser: %w", err)
		}
		log.Info("superuser ready", "username", admin.Username)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h, err := web.NewHandler(web.Deps{
		Posts:      postSvc,
		Comments:   commentSvc,
		Users:      userSvc,
		Categories: categorySvc,
		Sessions:   web.NewSessions([]byte(cfg.Session.Secret), cfg.Session.TTL),
		Logger:     log,
		Registry:   reg,
	})
	if err != nil {
		closePool(pool)
		return nil, err
	}

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{cfg: cfg, srv: srv, pool: pool}, nil
}

func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := a.srv.Shutdown(shCtx)
		closePool(a.pool)
		return err

	case err := <-errCh:
		closePool(a.pool)
		return err
	}
}

func closePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
