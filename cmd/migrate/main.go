package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devplatform/community-api/internal/auth"
	"github.com/devplatform/community-api/internal/config"
	"github.com/devplatform/community-api/internal/mongodb"
	"github.com/devplatform/community-api/internal/seed"
)

var (
	// Version information (set via ldflags)
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Parse flags
	mongoURI := flag.String("mongo-uri", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	database := flag.String("database", envOr("MONGO_DATABASE", "community"), "MongoDB database name")
	timeout := flag.Duration("timeout", 2*time.Minute, "How long to wait for MongoDB")
	withSeed := flag.Bool("seed", false, "Write fixture data after creating indexes")
	seedFile := flag.String("seed-file", "", "YAML fixture file (default: built-in fixtures)")
	tokenFor := flag.String("token-for", "", "Print a development token for this seeded user key")
	jwtSecret := flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to sign -token-for tokens")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Show version
	if *showVersion {
		logrus.Printf("Community migrate v%s (commit: %s, built: %s)", version, gitCommit, buildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := setupLogger(*logLevel)
	logger.WithFields(logrus.Fields{
		"version":   version,
		"commit":    gitCommit,
		"buildTime": buildTime,
	}).Info("Starting community migrate")

	if *tokenFor != "" && (*jwtSecret == "" || !*withSeed) {
		logger.Fatal("-token-for requires -seed and a JWT secret")
	}

	// Cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	// Wait for MongoDB to be ready
	initializer := mongodb.NewInitializer(logger, *timeout)
	if err := initializer.WaitForReady(ctx, *mongoURI); err != nil {
		logger.WithError(err).Fatal("MongoDB not ready")
	}

	cfg := &config.Config{
		MongoURI:            *mongoURI,
		MongoDatabase:       *database,
		MongoPoolSize:       2,
		MongoConnectTimeout: 10 * time.Second,
	}
	mgr, err := mongodb.NewManager(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mgr.Close()

	if err := initializer.EnsureIndexes(ctx, mgr.Database()); err != nil {
		logger.WithError(err).Fatal("Failed to create indexes")
	}

	if !*withSeed {
		logger.Info("Migration complete")
		return
	}

	spec := seed.DefaultSpec()
	if *seedFile != "" {
		spec, err = seed.LoadFile(*seedFile)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load seed file")
		}
	}

	res, err := seed.NewSeeder(mgr, logger).Apply(ctx, spec)
	if err != nil {
		logger.WithError(err).Fatal("Failed to apply seed data")
	}

	if *tokenFor != "" {
		userID, ok := res.Users[*tokenFor]
		if !ok {
			logger.WithField("user", *tokenFor).Fatal("Unknown seeded user")
		}
		token, err := auth.NewMiddleware(*jwtSecret, logger).IssueToken(userID, 24*time.Hour)
		if err != nil {
			logger.WithError(err).Fatal("Failed to issue token")
		}
		fmt.Println(token)
	}

	logger.Info("Migration and seed complete")
}

// setupLogger configures the logger
func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	logger.SetOutput(os.Stderr)

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
