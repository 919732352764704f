package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jobpulse/jobpulse/internal/logger"
	"github.com/jobpulse/jobpulse/internal/model"
)

// KafkaConfig configures the streaming record source.
type KafkaConfig struct {
	Brokers        []string
	Topic          string
	GroupID        string
	MinBytes       int           // default 1KB
	MaxBytes       int           // default 10MB
	CommitInterval time.Duration // default 1s
	DrainWait      time.Duration // how long Fetch blocks waiting for the next message
	DrainMax       int           // max messages drained per Fetch
}

// KafkaProvider drains whatever raw records are currently waiting on a topic.
// It adapts a continuous stream feed to the batch-shaped Provider contract:
// each Fetch reads until the topic runs dry (short wait) or DrainMax is hit.
// Poison messages are committed and skipped.
type KafkaProvider struct {
	r         *kafka.Reader
	drainWait time.Duration
	drainMax  int
}

func NewKafkaProvider(c KafkaConfig) *KafkaProvider {
	min := c.MinBytes
	if min <= 0 {
		min = 1 << 10
	}
	max := c.MaxBytes
	if max <= 0 {
		max = 10 << 20
	}
	ci := c.CommitInterval
	if ci <= 0 {
		ci = time.Second
	}
	dw := c.DrainWait
	if dw <= 0 {
		dw = 500 * time.Millisecond
	}
	dm := c.DrainMax
	if dm <= 0 {
		dm = 200
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MinBytes:       min,
		MaxBytes:       max,
		CommitInterval: ci,
		MaxWait:        50 * time.Millisecond,
	})

	return &KafkaProvider{r: r, drainWait: dw, drainMax: dm}
}

func (p *KafkaProvider) Name() string { return "kafka" }

func (p *KafkaProvider) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	var records []model.RawRecord

	for len(records) < p.drainMax {
		fetchCtx, cancel := context.WithTimeout(ctx, p.drainWait)
		m, err := p.r.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			// Deadline means the topic is drained for this cycle.
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			break
		}

		var raw model.RawRecord
		if err := json.Unmarshal(m.Value, &raw); err != nil {
			logger.L().Warn("kafka: bad record json", zap.Error(err))
			_ = p.r.CommitMessages(ctx, m)
			continue
		}

		records = append(records, raw)
		if err := p.r.CommitMessages(ctx, m); err != nil {
			logger.L().Warn("kafka: commit failed", zap.Error(err))
		}
	}
	return records, nil
}

func (p *KafkaProvider) Close() error { return p.r.Close() }
