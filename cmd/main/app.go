package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/config"
	"github.com/zhukovvlad/tender-matching-service/cmd/internal/server"
	"github.com/zhukovvlad/tender-matching-service/cmd/internal/services/matching"
	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
	"github.com/zhukovvlad/tender-matching-service/internal/clients"
	"github.com/zhukovvlad/tender-matching-service/internal/consumer"
	"github.com/zhukovvlad/tender-matching-service/internal/matcher"
	"github.com/zhukovvlad/tender-matching-service/internal/store"

	_ "github.com/lib/pq"
)

func main() {
	logger := logging.GetLogger()
	logger.Info("starting tender matching service...")

	if err := godotenv.Load(); err != nil {
		logger.Warnf("no .env file loaded: %v", err)
	}

	cfg := config.GetConfig()

	conn, err := sql.Open(cfg.Database.Driver, cfg.Database.Source)
	if err != nil {
		logger.Fatalf("error connecting to database: %v", err)
	}
	defer conn.Close()
	if err := conn.Ping(); err != nil {
		logger.Fatalf("error pinging database: %v", err)
	}
	logger.Info("database connection established")

	st := store.NewStore(conn, logger)

	amqpConn, err := amqp.Dial(cfg.Broker.DSN)
	if err != nil {
		logger.Fatalf("error connecting to broker: %v", err)
	}
	defer amqpConn.Close()

	channel, err := amqpConn.Channel()
	if err != nil {
		logger.Fatalf("error opening broker channel: %v", err)
	}
	defer channel.Close()

	pool := clients.NewPool(clients.Config{
		AttrParser:      clients.ServiceConfig{BaseURL: cfg.Services.AttrParser.URL, Timeout: cfg.Services.RequestTimeout, RateLimit: cfg.Services.RateLimitRPS},
		UnitNormalizer:  clients.ServiceConfig{BaseURL: cfg.Services.UnitNormalizer.URL, Timeout: cfg.Services.RequestTimeout, RateLimit: cfg.Services.RateLimitRPS},
		SemanticMatcher: clients.ServiceConfig{BaseURL: cfg.Services.SemanticMatcher.URL, Timeout: cfg.Services.RequestTimeout, RateLimit: cfg.Services.RateLimitRPS},
	})

	attrParser := clients.NewAttrParserClient(pool)
	unitNormalizer := clients.NewUnitNormalizerClient(pool)
	semanticMatcher := clients.NewSemanticMatcherClient(pool)

	searchClient := clients.NewSearchClient(clients.SearchConfig{
		BaseURL:       cfg.Elastic.URL,
		CandidatesQty: cfg.Elastic.CandidatesQty,
		MaxRetries:    cfg.Elastic.MaxRetries,
	})

	comparator := matcher.NewValueComparator(unitNormalizer, cfg.Matching.ThresholdValueMatch)
	comparator.NumericTolerance = cfg.Matching.NumericTolerance
	scorer := matcher.NewCandidateScorer(comparator, semanticMatcher, matcher.ScorerConfig{
		ThresholdAttributeMatch: cfg.Matching.ThresholdAttributeMatch,
	})
	positionMatcher := matcher.NewPositionMatcher(scorer, matcher.PositionConfig{
		SemaphoreSize: cfg.Matching.SemaphoreSize,
		TresholdScore: cfg.Matching.CandidatesThresholdScore,
	})

	tenderConsumer := consumer.New(
		channel, st, searchClient, attrParser, unitNormalizer.Normalize, positionMatcher,
		consumer.Config{SearchIndexName: cfg.Elastic.IndexName, CandidatesQty: cfg.Elastic.CandidatesQty},
		logger,
	)
	if err := tenderConsumer.Declare(); err != nil {
		logger.Fatalf("error declaring broker topology: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := tenderConsumer.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Errorf("consumer stopped: %v", err)
		}
	}()

	matchingService := matching.NewMatchingService(st, logger)
	httpServer := server.NewServer(st, logger, matchingService)

	serverAddress := fmt.Sprintf("%s:%s", cfg.Listen.BindIP, cfg.Listen.Port)
	go func() {
		logger.Infof("starting debug server on %s", serverAddress)
		if err := httpServer.Start(serverAddress); err != nil {
			logger.Errorf("debug server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
