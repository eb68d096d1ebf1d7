package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	authapp "stayhub/internal/app/auth"
	bookingapp "stayhub/internal/app/bookings"
	listingapp "stayhub/internal/app/listings"
	"stayhub/internal/app/policies"
	"stayhub/internal/app/support"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainreviews "stayhub/internal/domain/reviews"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/config"
	mongodb "stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/memory"
	"stayhub/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := bootstrapAdmin(ctx, cfg, app.auth, logger); err != nil {
		logger.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", app.storageKind)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers    ginserver.Handlers
	auth        *authapp.Service
	ready       func() error
	storageKind string
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	var (
		listingRepo domainlistings.Repository
		bookingRepo domainbooking.Repository
		reviewRepo  domainreviews.Repository
		userRepo    domainuser.Repository
		ready       = func() error { return nil }
		storageKind = "memory"
		cleanups    []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		users, err := mongodb.NewUserRepository(ctx, client.DB)
		if err != nil {
			return application{}, cleanup, err
		}
		listingRepo = mongodb.NewListingRepository(client.DB)
		bookingRepo = mongodb.NewBookingRepository(client.DB)
		reviewRepo = mongodb.NewReviewRepository(client.DB)
		userRepo = users
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		storageKind = "mongo"
	} else {
		listingRepo = memory.NewListingRepository()
		bookingRepo = memory.NewBookingRepository()
		reviewRepo = memory.NewReviewRepository()
		userRepo = memory.NewUserRepository()
	}

	var publisher policies.EventPublisher = policies.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, cleanup, err
		}
		cleanups = append(cleanups, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		})
		publisher = &kafka.EventPublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}
		logger.Info("kafka publisher enabled", "brokers", cfg.KafkaBrokers, "prefix", cfg.KafkaTopicPrefix)
	}

	var photos policies.PhotoStore
	if cfg.S3Endpoint != "" {
		store, err := s3.NewPhotoStore(s3.Options{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicEndpoint,
		}, logger)
		if err != nil {
			return application{}, cleanup, err
		}
		photos = store
		logger.Info("photo storage enabled", "bucket", cfg.S3Bucket)
	}

	authService := &authapp.Service{
		Users:      userRepo,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: cfg.BcryptCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	locks := support.NewKeyedMutex()
	listingService := &listingapp.Service{
		Listings: listingRepo,
		Bookings: bookingRepo,
		Reviews:  reviewRepo,
		Locks:    locks,
		Events:   publisher,
		Photos:   photos,
		Logger:   logger,
	}
	bookingService := &bookingapp.Service{
		Listings: listingRepo,
		Bookings: bookingRepo,
		Locks:    locks,
		Events:   publisher,
		Logger:   logger,
	}

	return application{
		handlers: ginserver.Handlers{
			Auth:           ginserver.AuthHandler{Service: authService, Users: userRepo, Logger: logger},
			Listing:        ginserver.ListingHandler{Service: listingService, Logger: logger},
			Booking:        ginserver.BookingHandler{Service: bookingService, Logger: logger},
			AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
		},
		auth:        authService,
		ready:       ready,
		storageKind: storageKind,
	}, cleanup, nil
}

// bootstrapAdmin ensures the configured admin account exists so a fresh
// deployment has a way into the admin endpoints.
func bootstrapAdmin(ctx context.Context, cfg config.Config, auth *authapp.Service, logger *slog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	if _, err := auth.Users.ByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return err
	}
	hash, err := auth.Passwords.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        cfg.AdminEmail,
		Name:         cfg.AdminName,
		PasswordHash: hash,
		Roles:        []domainuser.Role{domainuser.RoleGuest, domainuser.RoleHost, domainuser.RoleAdmin},
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return err
	}
	if err := auth.Users.Save(ctx, admin); err != nil {
		return err
	}
	logger.Info("admin account created", "email", cfg.AdminEmail)
	return nil
}
