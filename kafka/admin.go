package kafka

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// CreateTopic creates a topic with the given partition count and replication
// factor. A value of -1 lets the broker apply its configured default.
func (s *Service) CreateTopic(ctx context.Context, topic string, partitions int32, replicationFactor int16) error {
	reqTopic := kmsg.NewCreateTopicsRequestTopic()
	reqTopic.Topic = topic
	reqTopic.NumPartitions = partitions
	reqTopic.ReplicationFactor = replicationFactor

	req := kmsg.NewCreateTopicsRequest()
	req.Topics = []kmsg.CreateTopicsRequestTopic{reqTopic}

	res, err := req.RequestWith(ctx, s.Client)
	if err != nil {
		return errors.Wrapf(err, "failed to create topic '%v'", topic)
	}
	for _, topicRes := range res.Topics {
		if err := kerr.ErrorForCode(topicRes.ErrorCode); err != nil {
			return errors.Wrapf(err, "failed to create topic '%v'", topicRes.Topic)
		}
	}

	return nil
}

// DeleteTopic deletes the given topic and all its partitions.
func (s *Service) DeleteTopic(ctx context.Context, topic string) error {
	reqTopic := kmsg.NewDeleteTopicsRequestTopic()
	topicName := topic
	reqTopic.Topic = &topicName

	req := kmsg.NewDeleteTopicsRequest()
	req.TopicNames = []string{topic}
	req.Topics = []kmsg.DeleteTopicsRequestTopic{reqTopic}

	res, err := req.RequestWith(ctx, s.Client)
	if err != nil {
		return errors.Wrapf(err, "failed to delete topic '%v'", topic)
	}
	for _, topicRes := range res.Topics {
		if err := kerr.ErrorForCode(topicRes.ErrorCode); err != nil {
			return errors.Wrapf(err, "failed to delete topic '%v'", topic)
		}
	}

	return nil
}

// GrowPartitions raises the topic's partition count to the given total.
// Partitions can only be added, the broker rejects a count at or below the
// current one.
func (s *Service) GrowPartitions(ctx context.Context, topic string, totalCount int32) error {
	reqTopic := kmsg.NewCreatePartitionsRequestTopic()
	reqTopic.Topic = topic
	reqTopic.Count = totalCount

	req := kmsg.NewCreatePartitionsRequest()
	req.Topics = []kmsg.CreatePartitionsRequestTopic{reqTopic}

	res, err := req.RequestWith(ctx, s.Client)
	if err != nil {
		return errors.Wrapf(err, "failed to grow partitions of topic '%v'", topic)
	}
	for _, topicRes := range res.Topics {
		if err := kerr.ErrorForCode(topicRes.ErrorCode); err != nil {
			return errors.Wrapf(err, "failed to grow partitions of topic '%v'", topic)
		}
	}

	return nil
}
