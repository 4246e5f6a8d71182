package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twmb/franz-go/pkg/kadm"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ListEndOffsets fetches the high water mark for the given topics' partitions
// (all topics if none are given).
func (s *Service) ListEndOffsets(ctx context.Context, topics ...string) (kadm.ListedOffsets, error) {
	return s.listOffsetsInternal(ctx, s.AdmClient.ListEndOffsets, "end", topics)
}

// ListStartOffsets fetches the low water mark for the given topics'
// partitions (all topics if none are given).
func (s *Service) ListStartOffsets(ctx context.Context, topics ...string) (kadm.ListedOffsets, error) {
	return s.listOffsetsInternal(ctx, s.AdmClient.ListStartOffsets, "start", topics)
}

type listOffsetsFunc func(context.Context, ...string) (kadm.ListedOffsets, error)

func (s *Service) listOffsetsInternal(ctx context.Context, listFunc listOffsetsFunc, offsetType string, topics []string) (kadm.ListedOffsets, error) {
	listedOffsets, err := listFunc(ctx, topics...)
	if err != nil {
		var se *kadm.ShardErrors
		if !errors.As(err, &se) {
			return nil, fmt.Errorf("failed to list %s offsets: %w", offsetType, err)
		}

		if se.AllFailed {
			return nil, fmt.Errorf("failed to list %s offsets, all shard responses failed: %w", offsetType, err)
		}
		for _, shardErr := range se.Errs {
			s.logger.Warn(fmt.Sprintf("shard error for listing %s offsets", offsetType),
				zap.Int32("broker_id", shardErr.Broker.NodeID),
				zap.Error(shardErr.Err))
		}
	}

	listedOffsets.Each(func(offset kadm.ListedOffset) {
		if offset.Err != nil {
			s.logger.Warn(fmt.Sprintf("failed to list a partition's %s watermark", offsetType),
				zap.String("topic", offset.Topic),
				zap.Int32("partition", offset.Partition),
				zap.Error(offset.Err))
		}
	})

	return listedOffsets, nil
}

// FetchCommittedOffsets returns the committed group offsets for a single
// group.
func (s *Service) FetchCommittedOffsets(ctx context.Context, group string) (kadm.OffsetResponses, error) {
	offsets, err := s.AdmClient.FetchOffsets(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch committed offsets for group '%v': %w", group, err)
	}
	return offsets, nil
}

// FetchCommittedOffsetsBulk fetches committed offsets for many groups
// concurrently. A group whose fetch fails is logged and left out of the
// result; one broken group must not hide the others.
func (s *Service) FetchCommittedOffsetsBulk(ctx context.Context, groups []string) (map[string]kadm.OffsetResponses, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(10)

	mutex := sync.Mutex{}
	res := make(map[string]kadm.OffsetResponses, len(groups))

	for _, group := range groups {
		group := group
		eg.Go(func() error {
			offsets, err := s.FetchCommittedOffsets(egCtx, group)
			if err != nil {
				s.logger.Warn("failed to fetch committed offsets",
					zap.String("consumer_group", group),
					zap.Error(err))
				return nil
			}

			mutex.Lock()
			res[group] = offsets
			mutex.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return res, nil
}
