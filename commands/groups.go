package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kadm"

	"github.com/cloudhut/kcli/group"
	"github.com/cloudhut/kcli/kafka"
	"github.com/cloudhut/kcli/printer"
)

func (a *App) groupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Inspect consumer groups",
	}

	cmd.AddCommand(
		a.groupsListCommand(),
		a.groupsDescribeCommand(),
	)

	return cmd
}

func (a *App) groupsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all consumer groups with state and member count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext()
			defer cancel()

			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			described, err := svc.DescribeGroups(ctx)
			if err != nil {
				return err
			}

			groups := described.Groups
			sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })

			rows := make([][]string, 0, len(groups))
			for _, describedGroup := range groups {
				rows = append(rows, []string{
					describedGroup.Group,
					describedGroup.State,
					describedGroup.ProtocolType,
					strconv.Itoa(len(describedGroup.Members)),
				})
			}
			printer.Table(a.out, []string{"Group", "State", "Protocol Type", "Members"}, rows)
			return nil
		},
	}
}

func (a *App) groupsDescribeCommand() *cobra.Command {
	var showLag bool

	cmd := &cobra.Command{
		Use:   "describe GROUP",
		Short: "Show the members of a group, their assignments and optionally lag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID := args[0]
			ctx, cancel := a.requestContext()
			defer cancel()

			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			described, err := svc.DescribeGroups(ctx, groupID)
			if err != nil {
				return err
			}

			for _, describedGroup := range described.Groups {
				fmt.Fprintf(a.out, "Group:    %v\nState:    %v\nProtocol: %v\n\n",
					describedGroup.Group, describedGroup.State, describedGroup.ProtocolType)

				members := make([]group.Member, 0, len(describedGroup.Members))
				for _, member := range describedGroup.Members {
					members = append(members, group.Member{
						MemberID:   member.MemberID,
						ClientID:   member.ClientID,
						ClientHost: member.ClientHost,
						Assignment: member.MemberAssignment,
					})
				}

				rows := make([][]string, 0, len(members))
				for _, member := range members {
					aggregation := group.AggregateAssignments([]group.Member{member}, "")
					rows = append(rows, []string{
						member.MemberID,
						member.ClientID,
						member.ClientHost,
						formatAssignments(aggregation),
					})
				}
				printer.Table(a.out, []string{"Member", "Client", "Host", "Assignments"}, rows)

				aggregation := group.AggregateAssignments(members, "")
				for _, failure := range aggregation.Failures {
					fmt.Fprintf(a.out, "\nWarning: failed to decode assignment of member '%v': %v\n",
						failure.MemberID, failure.Err)
				}

				if showLag {
					if err := a.printGroupLag(svc, describedGroup.Group); err != nil {
						return err
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showLag, "lag", false, "show committed offsets and lag per partition")

	return cmd
}

// printGroupLag fetches the group's committed offsets and the topics' high
// watermarks and prints the lag per partition plus a total.
func (a *App) printGroupLag(svc *kafka.Service, groupID string) error {
	ctx, cancel := a.requestContext()
	defer cancel()

	committed, err := svc.FetchCommittedOffsets(ctx, groupID)
	if err != nil {
		return err
	}

	topics := committed.Partitions().Topics()
	if len(topics) == 0 {
		fmt.Fprintln(a.out, "\nNo committed offsets")
		return nil
	}

	endOffsets, err := svc.ListEndOffsets(ctx, topics...)
	if err != nil {
		return err
	}

	var offsets []group.PartitionOffsets
	endOffsets.Each(func(offset kadm.ListedOffset) {
		if offset.Err != nil {
			return
		}
		committedOffset := int64(-1)
		if res, exists := committed.Lookup(offset.Topic, offset.Partition); exists && res.Err == nil {
			committedOffset = res.At
		}
		offsets = append(offsets, group.PartitionOffsets{
			Topic:           offset.Topic,
			Partition:       offset.Partition,
			CommittedOffset: committedOffset,
			HighWaterMark:   offset.Offset,
		})
	})
	sort.Slice(offsets, func(i, j int) bool {
		if offsets[i].Topic != offsets[j].Topic {
			return offsets[i].Topic < offsets[j].Topic
		}
		return offsets[i].Partition < offsets[j].Partition
	})

	lags := group.ComputeLags(offsets)

	var totalLag int64
	rows := make([][]string, 0, len(lags))
	for _, lag := range lags {
		totalLag += lag.Lag
		rows = append(rows, []string{
			lag.Topic,
			strconv.Itoa(int(lag.Partition)),
			strconv.FormatInt(lag.CommittedOffset, 10),
			strconv.FormatInt(lag.HighWaterMark, 10),
			strconv.FormatInt(lag.Lag, 10),
		})
	}

	fmt.Fprintln(a.out)
	printer.Table(a.out, []string{"Topic", "Partition", "Committed", "High Watermark", "Lag"}, rows)
	fmt.Fprintf(a.out, "\nTotal lag: %v\n", totalLag)
	return nil
}

// formatAssignments renders one member's decoded assignment as a compact
// topic:partitions list, e.g. "orders:[0 1 2], payments:[3]".
func formatAssignments(aggregation group.Aggregation) string {
	if len(aggregation.Failures) > 0 {
		return "<undecodable>"
	}
	topics := aggregation.Topics()
	if len(topics) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(topics))
	for _, topic := range topics {
		parts = append(parts, fmt.Sprintf("%v:%v", topic, aggregation.Partitions[topic]))
	}
	return strings.Join(parts, ", ")
}
