// Package kafka publishes prepared fire records for downstream
// consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/LoreEMF/spain-wildfires/internal/config"
	"github.com/LoreEMF/spain-wildfires/internal/domain"
	"github.com/LoreEMF/spain-wildfires/internal/observability"
)

// Publisher produces prepared records to a Kafka topic.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	source  string
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{
		writer:  w,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
		source:  filepath.Base(cfg.DataPath),
	}
}

// PublishTable serializes and publishes every record in a single
// WriteMessages call.
func (p *Publisher) PublishTable(ctx context.Context, t domain.Table) error {
	if len(t.Records) == 0 {
		return nil
	}

	msgs, err := p.messages(t)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish records: %w", err)
	}

	p.metrics.RecordsPublished.Add(float64(len(msgs)))
	p.logger.Info("records published", "count", len(msgs), "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) messages(t domain.Table) ([]kafkago.Message, error) {
	preparedAt := p.clock.Now().UTC().Format(time.RFC3339)
	msgs := make([]kafkago.Message, len(t.Records))
	for i, r := range t.Records {
		msg, err := recordToMessage(r, p.source, preparedAt)
		if err != nil {
			return nil, err
		}
		msgs[i] = msg
	}
	return msgs, nil
}

// recordToMessage marshals one record. The key combines year and
// province code so a partition carries each province-year in order.
func recordToMessage(r domain.Record, source, preparedAt string) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%d:%d", r.Year, r.ProvinceCode)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(source)},
			{Key: "prepared_at", Value: []byte(preparedAt)},
		},
	}, nil
}
