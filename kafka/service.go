package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
	"github.com/twmb/franz-go/pkg/kversion"
	"go.uber.org/zap"
)

// Service wraps the franz-go client and exposes the narrow set of broker
// requests the commands need. All network access of the tool goes through
// here; the interpretation of the responses lives in the group and tail
// packages, which never see a connection.
type Service struct {
	cfg       Config
	logger    *zap.Logger
	Client    *kgo.Client
	AdmClient *kadm.Client
}

func NewService(cfg Config, logger *zap.Logger, opts ...kgo.Opt) (*Service, error) {
	kgoOpts, err := NewKgoConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create a valid kafka client config: %w", err)
	}
	kgoOpts = append(kgoOpts, opts...)

	kafkaClient, err := kgo.NewClient(kgoOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Service{
		cfg:       cfg,
		logger:    logger,
		Client:    kafkaClient,
		AdmClient: kadm.NewClient(kafkaClient),
	}, nil
}

// TestConnection tries to fetch broker metadata and logs some information if
// the connection succeeds. An error will be returned if connecting fails.
func (s *Service) TestConnection(ctx context.Context) error {
	s.logger.Debug("connecting to Kafka seed brokers, trying to fetch cluster metadata",
		zap.String("seed_brokers", strings.Join(s.cfg.Brokers, ",")))

	req := kmsg.NewMetadataRequest()
	res, err := req.RequestWith(ctx, s.Client)
	if err != nil {
		return fmt.Errorf("failed to request metadata: %w", err)
	}

	// Request versions in order to guess the cluster version
	versionsReq := kmsg.NewApiVersionsRequest()
	versionsRes, err := versionsReq.RequestWith(ctx, s.Client)
	if err != nil {
		return fmt.Errorf("failed to request api versions: %w", err)
	}
	err = kerr.ErrorForCode(versionsRes.ErrorCode)
	if err != nil {
		return fmt.Errorf("failed to request api versions. Inner kafka error: %w", err)
	}
	versions := kversion.FromApiVersionsResponse(versionsRes)

	s.logger.Debug("successfully connected to kafka cluster",
		zap.Int("advertised_broker_count", len(res.Brokers)),
		zap.Int("topic_count", len(res.Topics)),
		zap.Int32("controller_id", res.ControllerID),
		zap.String("kafka_version", versions.VersionGuess()))

	return nil
}

// Close releases the underlying client and its connections.
func (s *Service) Close() {
	s.Client.Close()
}
