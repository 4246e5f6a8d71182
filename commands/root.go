// Package commands wires the CLI surface: every subcommand is built here and
// delegates the actual work to the kafka, group, tail and config packages.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudhut/kcli/config"
	"github.com/cloudhut/kcli/kafka"
	"github.com/cloudhut/kcli/logging"
)

// App carries the state shared by all commands: the loaded environment store,
// the logger and the persistent flag values. One App serves one invocation.
type App struct {
	logger  *zap.Logger
	cfg     config.Config
	cfgPath string

	// Persistent flags
	environment string
	timeout     time.Duration

	out io.Writer
}

// NewRootCommand builds the complete command tree.
func NewRootCommand() *cobra.Command {
	app := &App{out: os.Stdout}

	cmd := &cobra.Command{
		Use:   "kcli",
		Short: "Operator CLI for inspecting and managing Kafka clusters",
		Long: "kcli inspects and manages Kafka clusters: list brokers, topics and consumer\n" +
			"groups, decode group assignments, compute consumer lag and tail topics live.\n" +
			"Clusters are configured as named environments, see 'kcli config'.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize()
		},
	}

	cmd.PersistentFlags().StringVarP(&app.environment, "environment", "e", "", "environment to connect to (defaults to the active one)")
	cmd.PersistentFlags().DurationVar(&app.timeout, "timeout", 15*time.Second, "timeout for broker requests")

	cmd.AddCommand(
		app.configCommand(),
		app.brokersCommand(),
		app.topicsCommand(),
		app.groupsCommand(),
	)

	return cmd
}

// initialize loads the environment store and sets up logging. Runs before
// every command.
func (a *App) initialize() error {
	path, err := config.DefaultFilepath()
	if err != nil {
		return err
	}
	a.cfgPath = path

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.NewLogger(cfg.Logger)

	return nil
}

// connect resolves the target environment, creates a Kafka service and
// verifies the connection.
func (a *App) connect(ctx context.Context) (*kafka.Service, error) {
	environment, err := a.cfg.Environment(a.environment)
	if err != nil {
		return nil, err
	}

	svc, err := kafka.NewService(environment.Kafka, a.logger)
	if err != nil {
		return nil, err
	}
	if err := svc.TestConnection(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}

	return svc, nil
}

// requestContext returns a context bound to the --timeout flag.
func (a *App) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout)
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
