package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/fdelavelle/billed/internal/billapi"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Optional .env file; absence is fine
	godotenv.Load()

	fs := ff.NewFlagSet("billed")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dbPath         = fs.StringLong("db", "billed.db", "Database file path")
		baseURL        = fs.StringLong("base-url", "", "Public base URL used in receipt file links")
		storageBackend = fs.StringLong("storage-backend", "local", "Receipt storage backend: 'local' or 's3'")
		storagePath    = fs.StringLong("storage", "./receipts", "Storage directory path (local backend)")
		s3Bucket       = fs.StringLong("s3-bucket", "", "S3 bucket name (s3 backend)")
		s3Region       = fs.StringLong("s3-region", "us-east-1", "S3 region (s3 backend)")
		jwtSecret      = fs.StringLong("jwt-secret", "", "JWT signing secret (empty disables auth)")
		authEmail      = fs.StringLong("auth-email", "", "Employee login email")
		authPass       = fs.StringLong("auth-pass", "", "Employee login password")
		tokenValidity  = fs.DurationLong("token-validity", 24*time.Hour, "Issued token lifetime")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BILLED"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	slog.Info("Initializing database...")
	db, err := billapi.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var storage billapi.Storage
	switch *storageBackend {
	case "local":
		slog.Info("Initializing local storage...", "path", *storagePath)
		storage, err = billapi.NewLocalStorage(*storagePath)
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
	case "s3":
		if *s3Bucket == "" {
			slog.Error("S3 bucket is required. Set --s3-bucket flag or BILLED_S3_BUCKET environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing S3 storage...", "bucket", *s3Bucket, "region", *s3Region)
		storage, err = billapi.NewS3Storage(context.Background(), billapi.S3Config{
			Bucket:    *s3Bucket,
			Region:    *s3Region,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		if err != nil {
			slog.Error("Failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid storage backend", "backend", *storageBackend, "valid", "local or s3")
		os.Exit(1)
	}

	service := billapi.NewService(db, storage, *baseURL)

	auth := billapi.AuthConfig{
		Secret:        []byte(*jwtSecret),
		Email:         *authEmail,
		Password:      *authPass,
		TokenValidity: *tokenValidity,
	}
	server := billapi.NewServer(service, auth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if auth.Enabled() {
		slog.Info("Bearer auth enabled", "user", *authEmail)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
