package main

import (
	"context"
	"errors"
	"log"
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/delivery/http/controllers"
	"medblock-service/internal/app/delivery/http/middlewares"
	"medblock-service/internal/app/delivery/http/routers"
	"medblock-service/internal/app/drivers/database"
	"medblock-service/internal/app/drivers/logger"
	"medblock-service/internal/app/drivers/messaging"
	"medblock-service/internal/app/drivers/storage"
	"medblock-service/internal/app/services/core/access"
	"medblock-service/internal/app/services/core/auth"
	"medblock-service/internal/app/services/core/identity"
	"medblock-service/internal/app/services/core/masking"
	"medblock-service/internal/app/services/core/orchestrator"
	"medblock-service/internal/app/services/core/patients"
	"medblock-service/internal/app/services/core/queryshaper"
	"medblock-service/internal/app/services/core/users"
	"medblock-service/internal/app/services/core/verification"
	"medblock-service/internal/app/services/shared/audit"
	"medblock-service/internal/app/services/shared/export"
	"medblock-service/internal/app/services/shared/jwtmanager"
	"medblock-service/internal/app/services/shared/maintenance"
	"medblock-service/internal/app/services/shared/ratelimiter"
	"medblock-service/internal/app/services/shared/recordstore"
	"medblock-service/internal/app/services/shared/redis"
	minioStorage "medblock-service/internal/app/services/shared/storage"
	"medblock-service/internal/pkg/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Login limiter visitors untouched for this long are forgotten.
const loginVisitorIdle = 10 * time.Minute

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		log.Fatalf("Error loading internal config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}

	time.Local = utils.LoadLocation(internalConfig.App.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoDB, err := database.NewMongoDB(ctx, driverConfig)
	if err != nil {
		zapLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	zapLogger.Info("Successfully connected to MongoDB")

	redisClient, err := database.NewRedisClient(ctx, driverConfig)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	zapLogger.Info("Successfully connected to Redis")

	minioClient, err := storage.NewMinio(ctx, driverConfig, internalConfig.Minio.BucketName)
	if err != nil {
		zapLogger.Fatal("Failed to initialize MinIO", zap.Error(err))
	}
	zapLogger.Info("Successfully connected to MinIO")

	// The audit trail falls back to log-only mode without a broker.
	rabbitMQ, err := messaging.NewRabbitMQ(driverConfig)
	if err != nil {
		zapLogger.Warn("RabbitMQ unavailable, audit events will only be logged", zap.Error(err))
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := bootstrapingTheApp(ctx, bootstrap); err != nil {
		zapLogger.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error while closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	log := bootstrap.Logger
	cfg := bootstrap.InternalConfig

	// Shared
	auditPublisher, err := audit.NewPublisher(bootstrap.RabbitMQ, cfg, log)
	if err != nil {
		return err
	}
	bootstrap.AuditStop = auditPublisher.Stop

	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	revocations := redis.NewTokenRevocationList(redisRepository)
	resourceLimiter := ratelimiter.NewResourceLimiter(redisRepository, log)

	jwtManager, err := jwtmanager.NewJWTManager(cfg, log)
	if err != nil {
		return err
	}

	recordStore := recordstore.NewMongoRecordStore(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	credentialStorage := minioStorage.NewMinioStorage(bootstrap.Minio)
	exporter := export.NewXLSXExporter()

	// Pipeline
	userRepository := users.NewUserMongoRepository(recordStore)
	patientRepository := patients.NewPatientMongoRepository(recordStore)

	identityResolver := identity.NewIdentityResolver(jwtManager, revocations, userRepository, auditPublisher, log)
	accessController := access.NewAccessController(auditPublisher, log)
	queryShaper := queryshaper.NewQueryShaper(cfg, queryshaper.UsersWhitelist(), queryshaper.PatientsWhitelist())
	masker := masking.NewMasker(log)
	orch := orchestrator.NewOrchestrator(accessController, queryShaper, masker, auditPublisher, log)

	// Usecases
	authUsecase := auth.NewAuthUsecase(userRepository, jwtManager, revocations, resourceLimiter, auditPublisher, log)
	userUsecase := users.NewUserUsecase(userRepository, orch, log)
	verificationUsecase := verification.NewVerificationUsecase(userRepository, credentialStorage, orch, cfg, log)
	patientUsecase := patients.NewPatientUsecase(patientRepository, orch, exporter, cfg, log)

	// HTTP
	mw := middlewares.NewMiddlewares(log, identityResolver, cfg)
	loginLimiter := middlewares.NewRateLimiter(
		log,
		cfg.Login.RequestsPerMinute,
		cfg.Login.Burst,
		time.Duration(cfg.Login.BlockDurationInMinute)*time.Minute,
	)

	worker := maintenance.NewWorker(log, cfg)
	worker.Register("login_limiter_sweep", func(ctx context.Context) error {
		return loginLimiter.Sweep(ctx, loginVisitorIdle)
	})
	worker.Start(ctx)
	bootstrap.MaintenanceStop = worker.Stop

	routers.SetupRoutes(bootstrap.Router, cfg, mw, loginLimiter, routers.Controllers{
		Auth:         controllers.NewAuthController(log, authUsecase),
		User:         controllers.NewUserController(log, userUsecase),
		Verification: controllers.NewVerificationController(log, verificationUsecase, cfg),
		Patient:      controllers.NewPatientController(log, patientUsecase),
	})
	return nil
}
