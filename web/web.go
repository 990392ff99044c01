// Package web wires the leadmap HTTP server: routing, sessions, rate
// limiting, the embedded client and background maintenance jobs.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/leadmap/leadmap/config"
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/util/common"
	"github.com/leadmap/leadmap/util/random"
	"github.com/leadmap/leadmap/web/cache"
	"github.com/leadmap/leadmap/web/controller"
	"github.com/leadmap/leadmap/web/job"
	"github.com/leadmap/leadmap/web/middleware"
	"github.com/leadmap/leadmap/web/network"
	"github.com/leadmap/leadmap/web/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

//go:embed assets
var assetsFS embed.FS

const shutdownTimeout = 10 * time.Second

var (
	secretOnce sync.Once
	secret     []byte
)

// sessionSecret returns the configured signing secret or one generated
// once per process, so a SIGHUP restart keeps existing sessions valid.
func sessionSecret() []byte {
	if s := config.GetSessionSecret(); s != "" {
		return []byte(s)
	}
	secretOnce.Do(func() {
		logger.Warning("session_secret is not set, sessions will not survive a process restart")
		secret = random.Key(32)
	})
	return secret
}

func tlsEnabled() bool {
	return config.GetCertFile() != "" && config.GetKeyFile() != ""
}

// Server is the leadmap web server with its session store, rate limit
// counters and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	redis   *redis.Client
	store   sessions.Store
	counter cache.Counter
	memory  *cache.MemoryCounter

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initStores connects Redis when configured and builds the session store
// and the rate limit counter on top of it, falling back to a signed cookie
// store and in-memory counters.
func (s *Server) initStores() error {
	key := sessionSecret()

	if addr := config.GetRedisAddr(); addr != "" {
		client, err := cache.NewRedisClient(s.ctx, addr, config.GetRedisPassword(), config.GetRedisDB())
		if err != nil {
			return err
		}
		s.redis = client
		s.store = cache.NewRedisStore(client, key)
		s.counter = cache.NewRedisCounter(client)
		logger.Info("sessions and rate limits stored in redis at", addr)
	} else {
		s.store = cookie.NewStore(key)
		s.memory = cache.NewMemoryCounter()
		s.counter = s.memory
	}

	s.store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.GetSessionMaxAge() * 60,
		HttpOnly: true,
		Secure:   tlsEnabled(),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// initRouter initializes Gin, registers middleware, static assets and
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/api/"}),
	))
	engine.Use(sessions.Sessions(session.CookieName, s.store))

	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return nil, err
	}
	controller.NewIndexController(engine.Group("/"), assets)

	limiter := middleware.RateLimitMiddleware(
		middleware.DefaultRateLimitConfig(config.GetLoginRateLimit(), s.counter),
	)

	api := engine.Group("/api", middleware.LoadUser())
	{
		controller.NewAuthController(api, limiter)
		controller.NewLocationController(api)
		controller.NewLeadDataController(api)
		controller.NewReservationController(api)
		controller.NewUserController(api)
		controller.NewServerController(api)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return engine, nil
}

// startTask schedules the maintenance jobs.
func (s *Server) startTask() {
	if _, err := s.cron.AddJob("@daily", job.NewCheckpointJob()); err != nil {
		logger.Warning("add checkpoint job failed:", err)
	}
	if _, err := s.cron.AddJob("@daily", job.NewClearLogsJob()); err != nil {
		logger.Warning("add clear logs job failed:", err)
	}
	if s.memory != nil {
		if _, err := s.cron.AddJob("@hourly", job.NewPurgeCounterJob(s.memory)); err != nil {
			logger.Warning("add purge counter job failed:", err)
		}
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err = s.initStores(); err != nil {
		return err
	}

	s.cron = cron.New(cron.WithLocation(time.Local))
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	if tlsEnabled() {
		cert, err := tls.LoadX509KeyPair(config.GetCertFile(), config.GetKeyFile())
		if err != nil {
			_ = listener.Close()
			return err
		}
		cfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
		listener = network.NewRedirectListener(listener)
		listener = tls.NewListener(listener, cfg)
		logger.Info("Web server running HTTPS on", listener.Addr())
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop drains in-flight requests and shuts down cron jobs and the Redis client.
func (s *Server) Stop() error {
	defer s.cancel()

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	} else if s.listener != nil {
		err1 = s.listener.Close()
	}
	if s.redis != nil {
		err2 = s.redis.Close()
	}
	return common.Combine(err1, err2)
}

