package tail

import "fmt"

// Config for one tail session.
type Config struct {
	// Topic is the topic to tail.
	Topic string

	// Filter is an optional dot-path expression ("path" or "path=value");
	// only matching records are printed.
	Filter string

	// LookBack replays this many messages per partition before the live
	// head. 0 starts at the head.
	LookBack uint64
}

func (c *Config) Validate() error {
	if c.Topic == "" {
		return fmt.Errorf("no topic to tail specified")
	}
	return nil
}
