package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cloudhut/kcli/printer"
)

func (a *App) brokersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brokers",
		Short: "Inspect the brokers of the cluster",
	}
	cmd.AddCommand(a.brokersListCommand())
	return cmd
}

func (a *App) brokersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all brokers with their host, rack and controller role",
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
			version, err := svc.GetClusterVersion(ctx)
			if err != nil {
				return err
			}

			brokers := metadata.Brokers
			sort.Slice(brokers, func(i, j int) bool { return brokers[i].NodeID < brokers[j].NodeID })

			rows := make([][]string, 0, len(brokers))
			for _, broker := range brokers {
				rack := ""
				if broker.Rack != nil {
					rack = *broker.Rack
				}
				controller := ""
				if broker.NodeID == metadata.ControllerID {
					controller = "*"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%v", broker.NodeID),
					fmt.Sprintf("%v:%v", broker.Host, broker.Port),
					rack,
					controller,
				})
			}

			fmt.Fprintf(a.out, "Cluster version: %v\n\n", version)
			printer.Table(a.out, []string{"Broker", "Address", "Rack", "Controller"}, rows)
			return nil
		},
	}
}
