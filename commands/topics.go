package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kadm"

	"github.com/cloudhut/kcli/group"
	"github.com/cloudhut/kcli/kafka"
	"github.com/cloudhut/kcli/printer"
)

func (a *App) topicsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Inspect and manage topics",
	}

	cmd.AddCommand(
		a.topicsListCommand(),
		a.topicsDescribeCommand(),
		a.topicsCreateCommand(),
		a.topicsDeleteCommand(),
		a.topicsGrowCommand(),
		a.tailCommand(),
	)

	return cmd
}

func (a *App) topicsListCommand() *cobra.Command {
	var showInternal bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all topics with partition and replica counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext()
			defer cancel()

			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			metadata, err := svc.GetMetadata(ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(metadata.Topics))
			for _, topic := range metadata.Topics {
				if topic.Topic == nil {
					continue
				}
				if topic.IsInternal && !showInternal {
					continue
				}
				replicationFactor := 0
				if len(topic.Partitions) > 0 {
					replicationFactor = len(topic.Partitions[0].Replicas)
				}
				rows = append(rows, []string{
					*topic.Topic,
					strconv.Itoa(len(topic.Partitions)),
					strconv.Itoa(replicationFactor),
				})
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

			printer.Table(a.out, []string{"Topic", "Partitions", "Replication Factor"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showInternal, "internal", false, "include internal topics such as __consumer_offsets")

	return cmd
}

func (a *App) topicsDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe TOPIC",
		Short: "Show partition details, watermarks and consuming groups of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicName := args[0]
			ctx, cancel := a.requestContext()
			defer cancel()

			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			metadata, err := svc.GetMetadata(ctx, topicName)
			if err != nil {
				return err
			}
			startOffsets, err := svc.ListStartOffsets(ctx, topicName)
			if err != nil {
				return err
			}
			endOffsets, err := svc.ListEndOffsets(ctx, topicName)
			if err != nil {
				return err
			}

			for _, topic := range metadata.Topics {
				partitions := topic.Partitions
				sort.Slice(partitions, func(i, j int) bool { return partitions[i].Partition < partitions[j].Partition })

				// The high minus low watermark sum estimates the retained
				// message count; compaction makes it an upper bound.
				var messageEstimate int64
				rows := make([][]string, 0, len(partitions))
				for _, partition := range partitions {
					low := listedOffsetString(startOffsets, topicName, partition.Partition)
					high := listedOffsetString(endOffsets, topicName, partition.Partition)
					if lowOffset, exists := startOffsets.Lookup(topicName, partition.Partition); exists && lowOffset.Err == nil {
						if highOffset, exists := endOffsets.Lookup(topicName, partition.Partition); exists && highOffset.Err == nil {
							messageEstimate += highOffset.Offset - lowOffset.Offset
						}
					}
					rows = append(rows, []string{
						strconv.Itoa(int(partition.Partition)),
						strconv.Itoa(int(partition.Leader)),
						fmt.Sprintf("%v", partition.Replicas),
						fmt.Sprintf("%v", partition.ISR),
						low,
						high,
					})
				}
				printer.Table(a.out, []string{"Partition", "Leader", "Replicas", "In Sync Replicas", "Low Watermark", "High Watermark"}, rows)
				fmt.Fprintf(a.out, "\nEstimated messages: %v\n", messageEstimate)
			}

			consumers, err := a.topicConsumers(svc, topicName)
			if err != nil {
				return err
			}
			if len(consumers) > 0 {
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, "Consumed by groups:")
				for _, groupID := range consumers {
					fmt.Fprintf(a.out, "  %v\n", groupID)
				}
			}

			return nil
		},
	}
}

// topicConsumers returns the IDs of all consumer groups with at least one
// member assigned to the topic, sorted.
func (a *App) topicConsumers(svc *kafka.Service, topic string) ([]string, error) {
	ctx, cancel := a.requestContext()
	defer cancel()

	described, err := svc.DescribeGroups(ctx)
	if err != nil {
		return nil, err
	}

	var consumers []string
	for _, describedGroup := range described.Groups {
		members := make([]group.Member, 0, len(describedGroup.Members))
		for _, member := range describedGroup.Members {
			members = append(members, group.Member{
				MemberID:   member.MemberID,
				ClientID:   member.ClientID,
				ClientHost: member.ClientHost,
				Assignment: member.MemberAssignment,
			})
		}

		aggregation := group.AggregateAssignments(members, topic)
		for _, failure := range aggregation.Failures {
			a.logger.Sugar().Warnw("failed to decode a member assignment",
				"consumer_group", describedGroup.Group,
				"member_id", failure.MemberID,
				"error", failure.Err)
		}
		if aggregation.ConsumesTopic(topic) {
			consumers = append(consumers, describedGroup.Group)
		}
	}
	sort.Strings(consumers)

	return consumers, nil
}

func (a *App) topicsCreateCommand() *cobra.Command {
	var (
		partitions        int32
		replicationFactor int16
	)

	cmd := &cobra.Command{
		Use:   "create TOPIC",
		Short: "Create a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicName := args[0]
			ctx, cancel := a.requestContext()
			defer cancel()

			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.CreateTopic(ctx, topicName, partitions, replicationFactor); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Topic '%v' created\n", topicName)
			return nil
		},
	}

	cmd.Flags().Int32VarP(&partitions, "partitions", "p", -1, "number of partitions (-1 uses the broker default)")
	cmd.Flags().Int16VarP(&replicationFactor, "replication-factor", "r", -1, "replication factor (-1 uses the broker default)")

	return cmd
}

func (a *App) topicsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete TOPIC",
		Short: "Delete a topic and all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicName := args[0]
			ctx, cancel := a.requestContext()
			defer cancel()

			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.DeleteTopic(ctx, topicName); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Topic '%v' deleted\n", topicName)
			return nil
		},
	}
}

func (a *App) topicsGrowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grow TOPIC TOTAL_PARTITIONS",
		Short: "Raise the partition count of a topic",
		Long: "Raises the topic's partition count to the given total. Partitions can only\n" +
			"be added; the broker rejects a total at or below the current count.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicName := args[0]
			totalCount, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil || totalCount <= 0 {
				return fmt.Errorf("total partition count must be a positive number, got '%v'", args[1])
			}

			ctx, cancel := a.requestContext()
			defer cancel()

			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.GrowPartitions(ctx, topicName, int32(totalCount)); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Topic '%v' grown to %v partitions\n", topicName, totalCount)
			return nil
		},
	}
}

func listedOffsetString(offsets kadm.ListedOffsets, topic string, partition int32) string {
	listed, exists := offsets.Lookup(topic, partition)
	if !exists || listed.Err != nil {
		return "?"
	}
	return strconv.FormatInt(listed.Offset, 10)
}
