package kafka

import "fmt"

// Config describes how to reach one Kafka cluster. One of these is stored
// per configured environment.
type Config struct {
	Brokers  []string `koanf:"brokers"`
	ClientID string   `koanf:"clientId"`
	RackID   string   `koanf:"rackId"`

	TLS  TLSConfig  `koanf:"tls"`
	SASL SASLConfig `koanf:"sasl"`
}

func (c *Config) SetDefaults() {
	c.ClientID = "kcli"

	c.TLS.SetDefaults()
	c.SASL.SetDefaults()
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("no seed brokers specified, at least one must be configured")
	}

	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("failed to validate TLS config: %w", err)
	}

	if err := c.SASL.Validate(); err != nil {
		return fmt.Errorf("failed to validate SASL config: %w", err)
	}

	return nil
}
