package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// GetMetadata requests the cluster metadata. With no topics given, metadata
// for all topics is returned.
func (s *Service) GetMetadata(ctx context.Context, topics ...string) (*kmsg.MetadataResponse, error) {
	req := kmsg.NewMetadataRequest()
	for _, topic := range topics {
		topicReq := kmsg.NewMetadataRequestTopic()
		topicName := topic
		topicReq.Topic = &topicName
		req.Topics = append(req.Topics, topicReq)
	}

	res, err := req.RequestWith(ctx, s.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to request metadata: %w", err)
	}

	for _, topic := range res.Topics {
		if err := kerr.ErrorForCode(topic.ErrorCode); err != nil {
			name := "?"
			if topic.Topic != nil {
				name = *topic.Topic
			}
			return nil, fmt.Errorf("failed to get metadata for topic '%v'. Inner kafka error: %w", name, err)
		}
	}

	return res, nil
}
