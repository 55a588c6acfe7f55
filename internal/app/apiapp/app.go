package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nvoropaev/fitmatch/backend/internal/config"
	s3infra "github.com/nvoropaev/fitmatch/backend/internal/infra/s3"
	pgrepo "github.com/nvoropaev/fitmatch/backend/internal/repo/postgres"
	redrepo "github.com/nvoropaev/fitmatch/backend/internal/repo/redis"
	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	classessvc "github.com/nvoropaev/fitmatch/backend/internal/services/classes"
	matchingsvc "github.com/nvoropaev/fitmatch/backend/internal/services/matching"
	partnersvc "github.com/nvoropaev/fitmatch/backend/internal/services/partners"
	photossvc "github.com/nvoropaev/fitmatch/backend/internal/services/photos"
	prefsvc "github.com/nvoropaev/fitmatch/backend/internal/services/preferences"
	profilesvc "github.com/nvoropaev/fitmatch/backend/internal/services/profiles"
	ratesvc "github.com/nvoropaev/fitmatch/backend/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient, err := redrepo.NewClient(ctx, redrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	matchCacheRepo := redrepo.NewMatchCacheRepo(redisClient)

	profileRepo := pgrepo.NewProfileRepo(pool)
	classRepo := pgrepo.NewClassRepo(pool)
	preferenceRepo := pgrepo.NewPreferenceRepo(pool)
	actionRepo := pgrepo.NewActionRepo(pool)
	mutualMatchRepo := pgrepo.NewMutualMatchRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	userRepo := pgrepo.NewUserRepo(pool)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else if err := s3infra.EnsureBucket(ctx, c, cfg.S3.Bucket); err != nil {
		log.Warn("s3 bucket bootstrap failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.LoginKey, cfg.Auth.RefreshTTL)

	profileService := profilesvc.NewService(profileRepo, matchCacheRepo, pgrepo.ErrProfileNotFound)
	preferencesService := prefsvc.NewService(preferenceRepo, matchCacheRepo)

	photoStorage := photossvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	photoService := photossvc.NewService(photoStorage, photoRepo, pgrepo.ErrPhotoNotFound)

	partnersService := partnersvc.NewService(partnersvc.Dependencies{
		Profiles:       profileRepo,
		Preferences:    preferenceRepo,
		Actions:        actionRepo,
		Photos:         photoService,
		Cache:          matchCacheRepo,
		ProfileMissing: pgrepo.ErrProfileNotFound,
		Logger:         log,
	}, partnersvc.Config{
		MinScore:      cfg.Matching.PartnerMinScore,
		MaxDistanceKM: cfg.Matching.PartnerMaxDistanceKM,
		Limit:         cfg.Matching.PartnerLimit,
		PoolSize:      cfg.Matching.CandidatePoolSize,
		CacheTTL:      time.Minute,
	})

	classesService := classessvc.NewService(classessvc.Dependencies{
		Classes:        classRepo,
		Profiles:       profileRepo,
		Preferences:    preferenceRepo,
		ProfileMissing: pgrepo.ErrProfileNotFound,
	}, classessvc.Config{
		MinScore:         cfg.Matching.ClassMinScore,
		WindowDays:       cfg.Matching.ClassWindowDays,
		Limit:            cfg.Matching.ClassLimit,
		RadiusMultiplier: cfg.Matching.ClassRadiusMultiplier,
		MaxDistanceKM:    cfg.Matching.PartnerMaxDistanceKM,
	})

	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Limits.LikeRatePerMinute,
		cfg.Limits.LikeRatePer10Seconds,
	)

	matchingService := matchingsvc.NewService(matchingsvc.Dependencies{
		Actions:        actionRepo,
		Matches:        mutualMatchRepo,
		Profiles:       profileRepo,
		Limiter:        rateLimiter,
		Partners:       partnersService,
		Classes:        classesService,
		Photos:         photoService,
		ProfileMissing: pgrepo.ErrProfileNotFound,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:        authService,
		ProfileService:     profileService,
		PreferencesService: preferencesService,
		PhotoService:       photoService,
		ClassesService:     classesService,
		MatchingService:    matchingService,
		Logger:             log,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
