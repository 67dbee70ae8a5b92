package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/awesome"
	"github.com/dmitrymomot/awesome/internal/blog"
	"github.com/dmitrymomot/awesome/middlewares"
	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/config"
	"github.com/dmitrymomot/awesome/pkg/cookie"
	"github.com/dmitrymomot/awesome/pkg/db"
	"github.com/dmitrymomot/awesome/pkg/render"
	"github.com/dmitrymomot/awesome/pkg/session"
)

// migrateOnStart is the serve --migrate flag value.
var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	pool, err := db.Open(ctx, cfg.DB, db.WithLogger(log))
	if err != nil {
		return err
	}
	if migrateOnStart {
		if err := db.Migrate(ctx, pool, blog.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
			pool.Close()
			return err
		}
	}

	users, health, hooks, err := identityCache(ctx, cfg, log)
	if err != nil {
		pool.Close()
		return err
	}

	codec := session.NewCodec(cfg.Session.Secret, blog.LookupUser(pool),
		session.WithCache(users, cfg.Session.CacheTTL),
		session.WithMaxAge(cfg.Session.MaxAge),
		session.WithLogger(log),
	)

	pages, err := blog.Templates(render.WithReload(cfg.Debug), render.WithLogger(log))
	if err != nil {
		pool.Close()
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middlewares.NewMetrics(reg, "awesome")
	if err != nil {
		pool.Close()
		return err
	}

	app := awesome.New(
		awesome.WithCustomLogger(log),
		awesome.WithCookieOptions(cookie.WithSecure(cfg.Session.Secure)),
		awesome.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Logger(),
			metrics.Middleware(),
			middlewares.Timeout(cfg.Server.RequestTimeout),
			middlewares.Session(codec),
			middlewares.Guard("/manage/", "/signin"),
			middlewares.Body(),
		),
		awesome.WithRenderer(render.Chain{pages, blog.Components()}),
		awesome.WithHandlers(
			blog.NewHandler(pool, codec, blog.WithLogger(log)),
			mount{pattern: cfg.Server.MetricsPath, handler: middlewares.Handler(reg)},
		),
		awesome.WithNotFoundHandler(blog.NotFound),
		awesome.WithStaticFiles("/static/", blog.Static(), "static"),
		awesome.WithHealthChecks(append(health,
			awesome.WithReadinessCheck("db", db.Healthcheck(pool)),
		)...),
	)

	opts := append([]awesome.RunOption{
		awesome.Logger(log),
		awesome.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		awesome.WithContext(ctx),
	}, hooks...)
	opts = append(opts, awesome.ShutdownHook(db.Shutdown(pool)))

	return app.Run(cfg.Server.Addr, opts...)
}

// identityCache picks Redis when a URL is configured and an in-process
// cache otherwise. It returns the readiness checks and shutdown hooks of
// the chosen backend.
func identityCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Cache[session.Principal], []awesome.HealthOption, []awesome.RunOption, error) {
	if cfg.Redis.URL == "" {
		users := cache.NewMemory[session.Principal](cache.WithDefaultTTL(cfg.Session.CacheTTL))
		log.InfoContext(ctx, "using in-memory identity cache")
		return users, nil, []awesome.RunOption{
			awesome.ShutdownHook(func(context.Context) error { return users.Close() }),
		}, nil
	}

	client, err := cache.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	users := cache.NewRedis(client, session.CacheMarshaler(),
		cache.WithPrefix(cfg.Redis.Prefix+":users"),
		cache.WithRedisDefaultTTL(cfg.Redis.DefaultTTL),
	)
	log.InfoContext(ctx, "using redis identity cache")
	return users,
		[]awesome.HealthOption{awesome.WithReadinessCheck("redis", cache.RedisHealthcheck(client))},
		[]awesome.RunOption{awesome.ShutdownHook(cache.RedisShutdown(client))},
		nil
}

// mount attaches a plain http.Handler to the app router.
type mount struct {
	pattern string
	handler http.Handler
}

func (m mount) Routes(r awesome.Router) {
	r.Mount(m.pattern, m.handler)
}
