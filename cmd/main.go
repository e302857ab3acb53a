package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/studydeck/studydeck-server/internal/api/http/router"
	httpServer "github.com/studydeck/studydeck-server/internal/api/http/server"
	"github.com/studydeck/studydeck-server/internal/config"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
	"github.com/studydeck/studydeck-server/internal/payment"
	"github.com/studydeck/studydeck-server/internal/pdftext"
	"github.com/studydeck/studydeck-server/internal/repository/postgres"
	"github.com/studydeck/studydeck-server/internal/server"
	"github.com/studydeck/studydeck-server/internal/service"
	storage "github.com/studydeck/studydeck-server/internal/storage/minio"
	"github.com/studydeck/studydeck-server/internal/studyaids"
	"github.com/studydeck/studydeck-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	withdrawalRepo := postgres.NewWithdrawalRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	generator := studyaids.NewMockGenerator(cfg.Mock.StudyAidsDelay)
	processor := payment.NewMockProcessor(cfg.Mock.PaymentDelay)
	extractor := pdftext.NewExtractor()

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, logger)
	ledgerService := service.NewLedger(userRepo, noteRepo, paymentRepo, withdrawalRepo, processor, logger)
	authService := service.NewAuth(userRepo, noteRepo, ledgerService, tokenService, logger)
	noteService := service.NewNote(noteRepo, commentRepo, userRepo, storageClient, extractor, generator, logger)

	r := router.New(authService, noteService, ledgerService, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
