package group

import "sort"

// Member is one member of a consumer group as reported by a DescribeGroups
// response. Assignment holds the raw member assignment payload and may be nil
// or empty for members that have not been assigned partitions yet, e.g. while
// the group is rebalancing.
type Member struct {
	MemberID   string
	ClientID   string
	ClientHost string
	Assignment []byte
}

// MemberError records a member whose assignment payload could not be decoded.
type MemberError struct {
	MemberID string
	Err      error
}

// Aggregation is the union of all member assignments of a group. Partitions
// holds a sorted, deduplicated partition set per topic. Failures lists the
// members whose payloads were malformed; their assignments are not part of
// Partitions but they never abort the aggregation of the remaining members.
type Aggregation struct {
	Partitions map[string][]int32
	Failures   []MemberError
}

// Topics returns the aggregated topic names in lexical order.
func (a Aggregation) Topics() []string {
	topics := make([]string, 0, len(a.Partitions))
	for topic := range a.Partitions {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// ConsumesTopic reports whether any member owns at least one partition of the
// given topic.
func (a Aggregation) ConsumesTopic(topic string) bool {
	return len(a.Partitions[topic]) > 0
}

// AggregateAssignments decodes and folds the assignments of all given members
// into one partition map. Members without an assignment are skipped silently.
// A decode failure is recorded per member and processing continues, so one
// bad payload does not hide the state of the rest of the group. When
// topicFilter is non-empty only that topic's partitions are folded in; other
// topics are dropped without error.
func AggregateAssignments(members []Member, topicFilter string) Aggregation {
	agg := Aggregation{Partitions: make(map[string][]int32)}

	seen := make(map[string]map[int32]struct{})
	for _, member := range members {
		if len(member.Assignment) == 0 {
			continue
		}

		assignment, err := DecodeMemberAssignment(member.Assignment)
		if err != nil {
			agg.Failures = append(agg.Failures, MemberError{MemberID: member.MemberID, Err: err})
			continue
		}

		for topic, partitions := range assignment {
			if topicFilter != "" && topic != topicFilter {
				continue
			}
			if seen[topic] == nil {
				seen[topic] = make(map[int32]struct{})
			}
			for _, partition := range partitions {
				if _, exists := seen[topic][partition]; exists {
					continue
				}
				seen[topic][partition] = struct{}{}
				agg.Partitions[topic] = append(agg.Partitions[topic], partition)
			}
		}
	}

	for topic := range agg.Partitions {
		sort.Slice(agg.Partitions[topic], func(i, j int) bool {
			return agg.Partitions[topic][i] < agg.Partitions[topic][j]
		})
	}

	return agg
}
