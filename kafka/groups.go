package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// ListGroups returns all consumer groups known to the cluster.
func (s *Service) ListGroups(ctx context.Context) (*kmsg.ListGroupsResponse, error) {
	listReq := kmsg.NewListGroupsRequest()
	res, err := listReq.RequestWith(ctx, s.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to list consumer groups: %w", err)
	}
	err = kerr.ErrorForCode(res.ErrorCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list consumer groups. Inner kafka error: %w", err)
	}

	return res, nil
}

// DescribeGroups describes the given consumer groups, including each
// member's raw assignment payload. With no groups given, every group
// returned by ListGroups is described.
func (s *Service) DescribeGroups(ctx context.Context, groups ...string) (*kmsg.DescribeGroupsResponse, error) {
	if len(groups) == 0 {
		listRes, err := s.ListGroups(ctx)
		if err != nil {
			return nil, err
		}
		for _, group := range listRes.Groups {
			groups = append(groups, group.Group)
		}
	}

	describeReq := kmsg.NewDescribeGroupsRequest()
	describeReq.Groups = groups
	describeRes, err := describeReq.RequestWith(ctx, s.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to describe consumer groups: %w", err)
	}

	return describeRes, nil
}
