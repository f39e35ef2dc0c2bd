package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/service"
	"github.com/MelissaSequeira/reimburse-portal/internal/config"
	"github.com/MelissaSequeira/reimburse-portal/internal/email"
	"github.com/MelissaSequeira/reimburse-portal/internal/export"
	httpserver "github.com/MelissaSequeira/reimburse-portal/internal/interfaces/http"
	"github.com/MelissaSequeira/reimburse-portal/internal/report"
	"github.com/MelissaSequeira/reimburse-portal/internal/repository"
	"github.com/MelissaSequeira/reimburse-portal/internal/storage"
	"github.com/MelissaSequeira/reimburse-portal/pkg/database"
	"github.com/MelissaSequeira/reimburse-portal/pkg/utils"
)

func main() {
	// Local development credentials; missing file is fine in production
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Reimbursement Portal",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	requestRepo := repository.NewRequestRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	txManager := repository.NewTxManager(db)

	artifacts, err := storage.NewLocalArtifactStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes, logger)
	if err != nil {
		logger.Fatal("Failed to initialize artifact store", zap.Error(err))
	}

	notifier := email.NewSender(email.Config{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		SenderName: cfg.SMTP.SenderName,
	}, logger)

	renderer := report.NewPDFRenderer(report.Config{
		InstitutionName: cfg.Report.InstitutionName,
		FooterText:      cfg.Report.FooterText,
	}, logger)

	exporter := export.NewRegisterExporter(logger)

	serviceLogger := &zapLoggerAdapter{logger: logger}
	reports := service.NewReportService(userRepo, renderer, notifier, serviceLogger)
	approvals := service.NewApprovalService(requestRepo, userRepo, notifier, reports, serviceLogger)
	submissions := service.NewSubmissionService(requestRepo, userRepo, artifacts, notifier, txManager, serviceLogger)
	admin := service.NewAdminService(requestRepo, exporter, serviceLogger)
	directory := service.NewDirectoryService(userRepo, serviceLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Canonicalize stage status casing left behind by older records.
	if err := admin.Normalize(ctx); err != nil {
		logger.Fatal("Failed to normalize stage statuses", zap.Error(err))
	}

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, submissions, approvals, admin, directory, artifacts, serviceLogger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
