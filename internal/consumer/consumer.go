// Package consumer ports app/broker/handlers.py's handle_tender_categorization:
// a single queue subscriber that loads a tender's positions, fetches
// candidates per position from the search index, scores them via
// matcher.PositionMatcher, and persists the results.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/zhukovvlad/tender-matching-service/cmd/internal/util"
	"github.com/zhukovvlad/tender-matching-service/cmd/pkg/logging"
	"github.com/zhukovvlad/tender-matching-service/internal/attrmodel"
	"github.com/zhukovvlad/tender-matching-service/internal/clients"
	"github.com/zhukovvlad/tender-matching-service/internal/matcher"
	"github.com/zhukovvlad/tender-matching-service/internal/store"
)

// cacheNormVersion — версия нормализации, под которой пайплайн пишет и
// читает matching_cache; операторские правки через /api/v1/positions/match
// используют ту же версию по умолчанию.
const cacheNormVersion = 1

// Exchange/queue/routing key names. The binding key departs from the
// original's "tender.categorized" — see the project's REDESIGN notes: the
// queue now binds to "tender.ready_for_matching" to reflect that matching
// starts only once categorization has already happened upstream.
const (
	ExchangeName = "tender.events"
	QueueName    = "matching_queue"
	RoutingKey   = "tender.ready_for_matching"
)

// tenderMessage is the broker payload shape from spec.md §6.
type tenderMessage struct {
	TenderID     int64   `json:"tender_id"`
	TenderNumber *string `json:"tender_number"`
	CustomerName *string `json:"customer_name"`
}

// SearchIndex is the opaque candidate-retrieval collaborator — a thin typed
// wrapper only, per spec.md's "out of scope" declaration for query building.
type SearchIndex interface {
	FindCandidates(ctx context.Context, index string, query any) ([]clients.CandidateHit, error)
}

// Config parameterizes Consumer with the search-index name and the number
// of candidates requested per position.
type Config struct {
	SearchIndexName string
	CandidatesQty   int
}

// Consumer subscribes to the broker and runs the matching pipeline for
// every tender it receives.
type Consumer struct {
	channel    *amqp.Channel
	store      *store.Store
	search     SearchIndex
	attrParser attrmodel.AttrParser
	normalize  attrmodel.NormalizeFunc
	matcher    *matcher.PositionMatcher
	cfg        Config
	logger     *logging.Logger
}

// New builds a Consumer over an already-open AMQP channel.
func New(
	channel *amqp.Channel,
	st *store.Store,
	search SearchIndex,
	attrParser attrmodel.AttrParser,
	normalize attrmodel.NormalizeFunc,
	positionMatcher *matcher.PositionMatcher,
	cfg Config,
	logger *logging.Logger,
) *Consumer {
	return &Consumer{
		channel:    channel,
		store:      st,
		search:     search,
		attrParser: attrParser,
		normalize:  normalize,
		matcher:    positionMatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Declare sets up the topic exchange, durable queue and binding, mirroring
// the Python subscriber's `RabbitQueue("matching_queue", durable=True, ...)`
// declaration made at subscription time.
func (c *Consumer) Declare() error {
	if err := c.channel.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}
	if _, err := c.channel.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueName, err)
	}
	if err := c.channel.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", QueueName, RoutingKey, err)
	}
	return nil
}

// Run consumes QueueName until ctx is cancelled, processing one tender per
// delivery. Every delivery is acknowledged on return regardless of outcome —
// spec.md §4.7 step 4: "no explicit retry policy beyond broker redelivery
// defaults".
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", QueueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	defer func() {
		if err := delivery.Ack(false); err != nil {
			c.logger.WithField("error", err).Error("ack delivery failed")
		}
	}()

	var msg tenderMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		c.logger.WithField("error", err).Error("malformed tender message, dropping")
		return
	}

	c.processTender(ctx, msg)
}

func (c *Consumer) processTender(ctx context.Context, msg tenderMessage) {
	logger := c.logger.WithField("tender_id", msg.TenderID)
	logger.Info("получен тендер для мэтчинга")

	positions, err := c.store.GetTenderPositions(ctx, msg.TenderID)
	if err != nil {
		logger.WithField("error", err).Error("не удалось загрузить позиции тендера")
		return
	}

	companyID, err := c.store.GetCompanyIDByTender(ctx, msg.TenderID)
	if err != nil {
		logger.WithField("error", err).Warn("не удалось загрузить company_id тендера")
	}
	logger.WithField("company_id", companyID).Infof("найдено позиций: %d", len(positions))

	for _, position := range positions {
		c.processPosition(ctx, logger, msg.TenderID, position)
	}
}

func (c *Consumer) processPosition(ctx context.Context, logger *logging.Logger, tenderID int64, position store.Position) {
	posLogger := logger.WithField("position_id", position.ID)

	titleHash := util.GetSHA256Hash(position.Title.String)
	if productMongoID, found, err := c.store.GetMatchingCacheByHash(ctx, titleHash, cacheNormVersion); err != nil {
		posLogger.WithField("error", err).Warn("не удалось проверить matching_cache")
	} else if found {
		if err := c.store.ExecTx(ctx, func(q *store.Queries) error {
			if _, err := q.IncrementProcessedPositions(ctx, tenderID); err != nil {
				return err
			}
			return q.CreateManualMatch(ctx, position.ID, productMongoID)
		}); err != nil {
			posLogger.WithField("error", err).Error("не удалось применить запись из matching_cache")
			return
		}
		posLogger.Infof("позиция сопоставлена из matching_cache с %s", productMongoID)
		return
	}

	hits, err := c.search.FindCandidates(ctx, c.cfg.SearchIndexName, buildSearchQuery(position, c.cfg.CandidatesQty))
	if err != nil {
		posLogger.WithField("error", err).Error("поиск кандидатов не удался")
		return
	}

	positionAttrs, err := attrmodel.ParsePositionAttributes(ctx, toPositionAttributeInputs(position.Attributes), c.attrParser, c.normalize)
	if err != nil {
		posLogger.WithField("error", err).Error("разбор атрибутов позиции не удался")
		return
	}

	candidates := toProductCandidates(ctx, hits, c.normalize)
	productCandidates := make([]matcher.ProductCandidate, 0, len(candidates))
	for _, cand := range candidates {
		productCandidates = append(productCandidates, matcher.ProductCandidate{MongoID: cand.hit.ID, Attrs: cand.grouped})
	}

	result, err := c.matcher.Match(ctx, positionAttrs, productCandidates)
	if err != nil {
		posLogger.WithField("error", err).Error("мэтчинг позиции не удался")
		return
	}

	if err := c.persist(ctx, tenderID, position, result); err != nil {
		posLogger.WithField("error", err).Error("не удалось сохранить результаты мэтчинга")
		return
	}

	posLogger.WithField("attribute_types", matcher.AnalyzeAttributeTypes(result)).
		Infof("позиция обработана, подобрано %d кандидатов", len(result.Candidates))
}

func toPositionAttributeInputs(attrs []store.PositionAttribute) []attrmodel.PositionAttributeInput {
	inputs := make([]attrmodel.PositionAttributeInput, 0, len(attrs))
	for _, a := range attrs {
		inputs = append(inputs, attrmodel.PositionAttributeInput{
			ID:    a.ID,
			Name:  a.Name.String,
			Value: a.Value.String,
			Unit:  a.Unit.String,
		})
	}
	return inputs
}

func buildSearchQuery(position store.Position, candidatesQty int) map[string]any {
	return map[string]any{
		"size": candidatesQty,
		"query": map[string]any{
			"match": map[string]any{"title": position.Title.String},
		},
	}
}
