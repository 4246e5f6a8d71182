package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cloudhut/kcli/printer"
	"github.com/cloudhut/kcli/tail"
)

func (a *App) tailCommand() *cobra.Command {
	var (
		filter   string
		lookBack uint64
	)

	cmd := &cobra.Command{
		Use:   "tail TOPIC",
		Short: "Continuously print a topic's records as colorized JSON",
		Long: "Tails the topic live until interrupted. Records must be JSON documents;\n" +
			"non-JSON records are counted but not printed. A filter such as\n" +
			"'data.attributes.name=19' restricts output to matching documents. The\n" +
			"look-back window replays that many records per partition before following\n" +
			"new ones.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, err := a.cfg.Environment(a.environment)
			if err != nil {
				return err
			}

			tailCfg := tail.Config{
				Topic:    args[0],
				Filter:   filter,
				LookBack: lookBack,
			}
			render := func(doc any) error {
				return printer.JSON(a.out, doc)
			}

			svc, err := tail.NewService(tailCfg, a.logger, environment.Kafka, render)
			if err != nil {
				return err
			}

			// Tailing runs until Ctrl-C, the --timeout flag does not apply.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runErr := svc.Run(ctx)

			stats := svc.Stats()
			fmt.Fprintf(a.out, "\nReceived %v records, %v matched\n", stats.Received, stats.Matched)
			for partition, count := range stats.ReceivedByPartition {
				a.logger.Sugar().Debugw("partition session stats",
					"partition", partition,
					"received", count)
			}

			return runErr
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only print documents whose dot path matches, e.g. data.id=42")
	cmd.Flags().Uint64VarP(&lookBack, "look-back", "l", 0, "number of records per partition to replay before following")

	return cmd
}
