package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudhut/kcli/config"
	"github.com/cloudhut/kcli/kafka"
	"github.com/cloudhut/kcli/printer"
)

func (a *App) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cluster environments",
		Long: "Environments are named cluster connections stored in " +
			"~/.config/kcli/config.yaml. Exactly one environment is active at a time; " +
			"commands run against the active environment unless --environment says otherwise.",
	}

	cmd.AddCommand(
		a.configSetCommand(),
		a.configActivateCommand(),
		a.configListCommand(),
	)

	return cmd
}

func (a *App) configSetCommand() *cobra.Command {
	var (
		brokers     []string
		rackID      string
		tlsEnabled  bool
		tlsCa       string
		tlsCert     string
		tlsKey      string
		tlsInsecure bool
		saslEnabled bool
		saslMech    string
		saslUser    string
		saslPass    string
	)

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Add or update an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var environment config.EnvironmentConfig
			environment.SetDefaults()
			environment.Kafka.Brokers = brokers
			environment.Kafka.RackID = rackID
			environment.Kafka.TLS = kafka.TLSConfig{
				Enabled:               tlsEnabled,
				CaFilepath:            tlsCa,
				CertFilepath:          tlsCert,
				KeyFilepath:           tlsKey,
				InsecureSkipTLSVerify: tlsInsecure,
			}
			environment.Kafka.SASL.Enabled = saslEnabled
			if saslMech != "" {
				environment.Kafka.SASL.Mechanism = saslMech
			}
			environment.Kafka.SASL.Username = saslUser
			environment.Kafka.SASL.Password = saslPass

			if err := environment.Validate(); err != nil {
				return err
			}

			a.cfg.Upsert(name, environment)
			if err := config.Save(a.cfgPath, a.cfg); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Environment '%v' saved to %v\n", name, a.cfgPath)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&brokers, "brokers", "b", nil, "comma separated seed broker list (host:port)")
	cmd.Flags().StringVar(&rackID, "rack", "", "client rack identifier for follower fetching")
	cmd.Flags().BoolVar(&tlsEnabled, "tls", false, "use TLS when connecting")
	cmd.Flags().StringVar(&tlsCa, "tls-ca", "", "path to the CA certificate")
	cmd.Flags().StringVar(&tlsCert, "tls-cert", "", "path to the client certificate")
	cmd.Flags().StringVar(&tlsKey, "tls-key", "", "path to the client key")
	cmd.Flags().BoolVar(&tlsInsecure, "tls-insecure", false, "skip TLS certificate verification")
	cmd.Flags().BoolVar(&saslEnabled, "sasl", false, "authenticate via SASL")
	cmd.Flags().StringVar(&saslMech, "sasl-mechanism", "", "SASL mechanism (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512, GSSAPI, OAUTHBEARER)")
	cmd.Flags().StringVar(&saslUser, "sasl-username", "", "SASL username")
	cmd.Flags().StringVar(&saslPass, "sasl-password", "", "SASL password")
	_ = cmd.MarkFlagRequired("brokers")

	return cmd
}

func (a *App) configActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate NAME",
		Short: "Make an environment the default for all commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := a.cfg.Activate(name); err != nil {
				return err
			}
			if err := config.Save(a.cfgPath, a.cfg); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Environment '%v' is now active\n", name)
			return nil
		},
	}
}

func (a *App) configListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := a.cfg.EnvironmentNames()
			if len(names) == 0 {
				fmt.Fprintln(a.out, "No environments configured, add one with 'kcli config set'")
				return nil
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				environment := a.cfg.Environments[name]
				active := ""
				if environment.Active {
					active = "*"
				}
				rows = append(rows, []string{
					active,
					name,
					fmt.Sprintf("%v", environment.Kafka.Brokers),
				})
			}
			printer.Table(a.out, []string{"", "Environment", "Brokers"}, rows)
			return nil
		},
	}
}
