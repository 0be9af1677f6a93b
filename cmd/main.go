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

	"github.com/lyristudy/lyristudy-server/internal/ai"
	restctx "github.com/lyristudy/lyristudy-server/internal/api/rest/context"
	"github.com/lyristudy/lyristudy-server/internal/api/rest/router"
	"github.com/lyristudy/lyristudy-server/internal/config"
	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
	"github.com/lyristudy/lyristudy-server/internal/password"
	"github.com/lyristudy/lyristudy-server/internal/repository/postgres"
	"github.com/lyristudy/lyristudy-server/internal/server"
	"github.com/lyristudy/lyristudy-server/internal/service"
	storage "github.com/lyristudy/lyristudy-server/internal/storage/minio"
	"github.com/lyristudy/lyristudy-server/internal/token"
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
	songRepo := postgres.NewSongRepository(db)
	vocabRepo := postgres.NewVocabRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	hasher := password.NewArgon2(cfg.KDF.Time, cfg.KDF.MemKiB, cfg.KDF.Par)
	ctxMgr := restctx.NewManager()

	location, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		logger.Fatal("failed to load quota timezone", "timezone", cfg.Quota.Timezone, "error", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	lyricsStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize lyrics storage", "error", err)
	}

	analyzer := ai.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)

	authService := service.NewAuth(userRepo, hasher, tokenManager, logger)
	quotaService := service.NewQuota(userRepo, service.SystemClock{}, location, cfg.Quota.DailyLimit, logger)
	analysisService := service.NewAnalysis(songRepo, quotaService, analyzer, lyricsStore, logger)
	songService := service.NewSong(songRepo, lyricsStore, logger)
	vocabService := service.NewVocab(vocabRepo, logger)

	r := router.New(
		authService,
		analysisService,
		songService,
		vocabService,
		tokenManager,
		ctxMgr,
		cfg.CORS.AllowedOrigins,
		logger,
	)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
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
