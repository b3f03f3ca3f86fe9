package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/platefront/platefront/backend/admin-console/handlers"
	"github.com/platefront/platefront/backend/admin-console/internal/config"
	"github.com/platefront/platefront/backend/admin-console/internal/database"
	"github.com/platefront/platefront/backend/admin-console/internal/export"
	"github.com/platefront/platefront/backend/admin-console/internal/identity"
	"github.com/platefront/platefront/backend/admin-console/internal/oidc"
	"github.com/platefront/platefront/backend/admin-console/internal/roster"
	"github.com/platefront/platefront/backend/admin-console/internal/sessions"
	"github.com/platefront/platefront/backend/admin-console/internal/storage"
	"github.com/platefront/platefront/backend/admin-console/pkg/logger"
	"github.com/platefront/platefront/backend/admin-console/pkg/metrics"
	"github.com/platefront/platefront/backend/admin-console/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v oidc=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.OIDC.Issuer != "")

	r := gin.New()
	r.SetHTMLTemplate(handlers.Templates())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	r.Use(gin.Logger(), gin.Recovery())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to Redis early so the rate-limiter and session store can use it
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	blacklist := sessions.NewBlacklist(rdb)

	// Optional global rate limiter (per-admin when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Sessions: prefer Redis, fall back to Mongo below
	var sessionsSvc *sessions.Service
	if rdb != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(rdb, "admin:session:"))
		logger.Infof("using Redis for session storage")
	}

	// MongoDB-backed stores: admins, users roster, sessions (fallback), exports.
	// Retry with backoff to tolerate startup races against the database container.
	var identitySvc *identity.Service
	var rosterRepo roster.Repository
	var exportStore *export.Store
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			identitySvc = identity.NewService(identity.NewMongoRepository(db.Collection(database.AdminsCollection)))
			rosterRepo = roster.NewMongoRepository(db.Collection(database.UsersCollection))
			exportStore = export.NewStore(db.Collection(database.ExportsCollection))
			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection(database.SessionsCollection)))
			}
		}
	}
	if rosterRepo == nil {
		// no Mongo: keep the console functional against an empty in-memory roster
		logger.Warnf("MongoDB unavailable, using in-memory roster")
		rosterRepo = roster.NewMemoryRepository()
	}

	if identitySvc != nil {
		if err := identitySvc.EnsureBootstrapAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Warnf("bootstrap admin: %v", err)
		}
	}

	feed := roster.NewFeed(rosterRepo)
	if err := feed.Start(ctx); err != nil {
		logger.Fatalf("failed to start roster feed: %v", err)
	}

	// Optional Bearer-token access to the JSON API for external tooling
	var verifier middleware.Verifier
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, strings.TrimRight(cfg.OIDC.Issuer, "/"), cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		logger.Warn("enabling insecure OIDC verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}

	// Object storage for roster exports. Optional: the export endpoint
	// reports 503 when unconfigured.
	var archive *storage.MinIOStorage
	if mc := storage.LoadMinIOConfig(); mc.Endpoint != "" {
		archive, err = storage.NewMinIOStorage(mc)
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
		}
	}

	handlers.RegisterPages(r)
	if identitySvc != nil && sessionsSvc != nil {
		auth := handlers.NewAuthHandler(cfg, identitySvc, sessionsSvc, blacklist)
		auth.Register(&r.RouterGroup)

		guard := middleware.SessionGuard([]byte(cfg.Session.Secret), cfg.Session.CookieName, sessionsSvc, blacklist)
		dash := handlers.NewDashboardHandler(feed, rosterRepo, sessionsSvc, exportStore, archive)
		dash.Register(&r.RouterGroup, guard)
	} else {
		logger.Warnf("console routes not registered because identity/session stores are unavailable")
	}
	handlers.RegisterSwagger(r)

	if verifier != nil {
		v1 := r.Group("/api/v1", middleware.AuthMiddleware(verifier))
		v1.GET("/users", func(c *gin.Context) {
			c.JSON(http.StatusOK, feed.Current())
		})
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the stores the console depends on are up
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["identity"] = identitySvc != nil
		deps["sessions"] = sessionsSvc != nil
		if identitySvc == nil || sessionsSvc == nil {
			ready = false
		}
		if cfg.RateLimit.UseRedis {
			deps["redis"] = rdb != nil
			if rdb == nil {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting admin console on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
