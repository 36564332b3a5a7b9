package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yaadplay/storefront/internal/config"
	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/pkg/logger"
	"github.com/yaadplay/storefront/pkg/util"
)

type leadPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *prometheus.HistogramVec
	log      *zap.SugaredLogger
	now      func() time.Time
}

// NewLeadPublisher connects a sync producer to the configured brokers, or returns a
// publisher that drops everything when no brokers are set.
func NewLeadPublisher(cfg *config.KafkaConfig) (LeadPublisher, error) {
	if !cfg.Enabled() {
		logger.MustNamed("kafka").Warnw("Kafka lead publisher is disabled, no brokers configured")
		return &noopPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create sync producer: %w", err)
	}
	return newLeadPublisher(producer, cfg.Topic)
}

func newSaramaConfig() *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = "yaadplay-storefront"
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true
	return sc
}

func newLeadPublisher(producer sarama.SyncProducer, topic string) (*leadPublisher, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_produced", "time spent producing kafka messages", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &leadPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
		log:      logger.MustNamed("kafka"),
		now:      time.Now,
	}, nil
}

func (p *leadPublisher) PublishLead(ctx context.Context, lead *models.SurveySubmission) error {
	if lead == nil {
		return status.Error(codes.InvalidArgument, "lead is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	event := LeadEvent{
		ID:          uuid.NewString(),
		Pattern:     leadPattern,
		PublishedAt: p.now().UTC(),
		Data:        lead,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ID),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerPattern), Value: []byte(leadPattern)},
			{Key: []byte(headerSource), Value: []byte(lead.Source)},
		},
	})
	duration := time.Since(start)
	code := getCode(err)
	p.metrics.WithLabelValues(code.String(), p.topic).Observe(duration.Seconds())

	if err != nil {
		p.log.Errorw("Failed to publish survey lead",
			"topic", p.topic,
			"event_id", event.ID,
			"code", code,
			"error", err)
		return fmt.Errorf("send lead event: %w", err)
	}

	p.log.Infow("Published survey lead",
		"topic", p.topic,
		"event_id", event.ID,
		"partition", partition,
		"offset", offset,
		"duration_ms", duration.Milliseconds())
	return nil
}

func (p *leadPublisher) Close() error {
	return p.producer.Close()
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unavailable
}

// noopPublisher is used when Kafka is disabled
type noopPublisher struct{}

func (n *noopPublisher) PublishLead(context.Context, *models.SurveySubmission) error {
	return nil
}

func (n *noopPublisher) Close() error {
	return nil
}
