package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberWith(id string, topics map[string][]int32) Member {
	encoded := make([]struct {
		name       string
		partitions []int32
	}, 0, len(topics))
	for name, partitions := range topics {
		encoded = append(encoded, struct {
			name       string
			partitions []int32
		}{name: name, partitions: partitions})
	}
	return Member{MemberID: id, Assignment: encodeAssignment(0, encoded)}
}

func TestAggregateAssignments(t *testing.T) {
	tests := []struct {
		name        string
		members     []Member
		topicFilter string
		check       func(t *testing.T, agg Aggregation)
	}{
		{
			name: "overlapping members are unioned and deduplicated",
			members: []Member{
				memberWith("member-1", map[string][]int32{"orders": {0, 1}}),
				memberWith("member-2", map[string][]int32{"orders": {1, 2}}),
			},
			check: func(t *testing.T, agg Aggregation) {
				assert.Empty(t, agg.Failures)
				assert.Equal(t, map[string][]int32{"orders": {0, 1, 2}}, agg.Partitions)
			},
		},
		{
			name: "member without assignment contributes nothing and is no error",
			members: []Member{
				memberWith("member-1", map[string][]int32{"orders": {0}}),
				{MemberID: "member-joining", Assignment: nil},
				{MemberID: "member-empty", Assignment: []byte{}},
			},
			check: func(t *testing.T, agg Aggregation) {
				assert.Empty(t, agg.Failures)
				assert.Equal(t, map[string][]int32{"orders": {0}}, agg.Partitions)
			},
		},
		{
			name: "malformed member is a partial failure, rest keeps going",
			members: []Member{
				memberWith("member-1", map[string][]int32{"orders": {0}}),
				{MemberID: "member-bad", Assignment: []byte("\x00\x01\xff")},
				memberWith("member-3", map[string][]int32{"orders": {5}}),
			},
			check: func(t *testing.T, agg Aggregation) {
				require.Len(t, agg.Failures, 1)
				assert.Equal(t, "member-bad", agg.Failures[0].MemberID)
				var decodeErr *DecodeError
				assert.ErrorAs(t, agg.Failures[0].Err, &decodeErr)
				assert.Equal(t, map[string][]int32{"orders": {0, 5}}, agg.Partitions)
			},
		},
		{
			name: "topic filter drops other topics silently",
			members: []Member{
				memberWith("member-1", map[string][]int32{"orders": {3, 1}, "payments": {0}}),
				memberWith("member-2", map[string][]int32{"payments": {1}}),
			},
			topicFilter: "orders",
			check: func(t *testing.T, agg Aggregation) {
				assert.Empty(t, agg.Failures)
				assert.Equal(t, map[string][]int32{"orders": {1, 3}}, agg.Partitions)
				assert.True(t, agg.ConsumesTopic("orders"))
				assert.False(t, agg.ConsumesTopic("payments"))
			},
		},
		{
			name:    "no members",
			members: nil,
			check: func(t *testing.T, agg Aggregation) {
				assert.Empty(t, agg.Failures)
				assert.Empty(t, agg.Partitions)
				assert.Empty(t, agg.Topics())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := AggregateAssignments(tt.members, tt.topicFilter)
			tt.check(t, agg)
		})
	}
}

func TestAggregationTopicsSorted(t *testing.T) {
	agg := AggregateAssignments([]Member{
		memberWith("member-1", map[string][]int32{"zebra": {0}}),
		memberWith("member-2", map[string][]int32{"alpha": {0}, "mango": {0}}),
	}, "")

	assert.Equal(t, []string{"alpha", "mango", "zebra"}, agg.Topics())
}
