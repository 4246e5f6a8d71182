package tail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/cloudhut/kcli/kafka"
)

// RenderFunc prints one decoded record payload. The session treats rendering
// as an opaque sink so that the output format (plain, colorized) stays a
// presentation concern.
type RenderFunc func(doc any) error

// Service runs one live tail session against a topic: it plans the start
// offset per partition from the current high watermarks and the configured
// look-back, consumes the assigned partitions, and prints every record that
// passes the filter. It is a best-effort, read-only observer; it commits
// nothing and joins no group.
type Service struct {
	cfg      Config
	logger   *zap.Logger
	kafkaCfg kafka.Config
	render   RenderFunc
	stats    *SessionStats
}

func NewService(cfg Config, logger *zap.Logger, kafkaCfg kafka.Config, render RenderFunc) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if render == nil {
		return nil, fmt.Errorf("no render func provided")
	}

	return &Service{
		cfg:      cfg,
		logger:   logger,
		kafkaCfg: kafkaCfg,
		render:   render,
		stats:    newSessionStats(),
	}, nil
}

// Stats returns a snapshot of the session counters. Safe to call from
// another goroutine while Run is polling.
func (s *Service) Stats() Snapshot {
	return s.stats.Snapshot()
}

// Run blocks until ctx is cancelled or an unrecoverable error occurs.
func (s *Service) Run(ctx context.Context) error {
	startOffsets, err := s.planStartOffsets(ctx)
	if err != nil {
		return err
	}

	// The consumer gets its own client with a unique ID so that concurrent
	// tail sessions are distinguishable in broker logs.
	consumerCfg := s.kafkaCfg
	consumerCfg.ClientID = fmt.Sprintf("%v-tail-%v", s.kafkaCfg.ClientID, uuid.NewString())

	consumeOpt := kgo.ConsumePartitions(map[string]map[int32]kgo.Offset{
		s.cfg.Topic: startOffsets,
	})
	consumerSvc, err := kafka.NewService(consumerCfg, s.logger, consumeOpt)
	if err != nil {
		return fmt.Errorf("failed to create consumer client: %w", err)
	}
	defer consumerSvc.Close()

	s.logger.Info("starting to tail topic",
		zap.String("topic", s.cfg.Topic),
		zap.Int("partitions", len(startOffsets)),
		zap.Uint64("look_back", s.cfg.LookBack))

	for {
		fetches := consumerSvc.Client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}

		for _, fetchErr := range fetches.Errors() {
			if errors.Is(fetchErr.Err, context.Canceled) {
				return nil
			}
			// Log and keep polling, a fetch error on one partition may still
			// come with records for the others.
			s.logger.Error("failed to fetch records",
				zap.String("topic", fetchErr.Topic),
				zap.Int32("partition", fetchErr.Partition),
				zap.Error(fetchErr.Err))
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			s.handleRecord(iter.Next())
		}
	}
}

// planStartOffsets fetches the high watermark of every partition of the
// topic and applies the look-back window to each.
func (s *Service) planStartOffsets(ctx context.Context) (map[int32]kgo.Offset, error) {
	adminSvc, err := kafka.NewService(s.kafkaCfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminSvc.Close()

	endOffsets, err := adminSvc.ListEndOffsets(ctx, s.cfg.Topic)
	if err != nil {
		return nil, err
	}

	startOffsets := make(map[int32]kgo.Offset)
	endOffsets.Each(func(offset kadm.ListedOffset) {
		if offset.Err != nil {
			return
		}
		startOffsets[offset.Partition] = kgo.NewOffset().At(StartOffset(offset.Offset, s.cfg.LookBack))
	})
	if len(startOffsets) == 0 {
		return nil, fmt.Errorf("no partition watermarks available for topic '%v', does the topic exist?", s.cfg.Topic)
	}

	return startOffsets, nil
}

func (s *Service) handleRecord(record *kgo.Record) {
	s.stats.markReceived(record.Partition)

	if len(record.Value) == 0 {
		return
	}
	var doc any
	if err := json.Unmarshal(record.Value, &doc); err != nil {
		s.logger.Debug("skipping record with non-JSON payload",
			zap.Int32("partition", record.Partition),
			zap.Int64("offset", record.Offset))
		return
	}

	if s.cfg.Filter != "" && !Matches(doc, s.cfg.Filter) {
		return
	}
	s.stats.markMatched()

	if err := s.render(doc); err != nil {
		s.logger.Warn("failed to render record", zap.Error(err))
	}
}
