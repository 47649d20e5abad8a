package queue

import (
	"fmt"

	"github.com/coffeehub/smartqueue/core/model"
)

// Config defines scheduler parameters loaded from configuration.
type Config struct {
	// Lambda is the mean arrival rate (customers per minute) of the
	// auto-arrival generator.
	Lambda float64 `json:"lambda"`
	// DefaultMode is the policy restored on start and reset.
	DefaultMode string `json:"default_mode"`
	// AutoArrival enables synthetic arrivals on clock advancement.
	AutoArrival bool `json:"auto_arrival"`
	// Baristas is the barista count used for the estimated-wait projection.
	Baristas int `json:"baristas"`
	// Seed fixes the RNG for reproducible runs; 0 seeds from the wall clock.
	Seed int64 `json:"seed"`
}

// SetDefaults fills unset fields with production defaults.
func (c *Config) SetDefaults() {
	if c.Lambda == 0 {
		c.Lambda = 1.4
	}
	if c.DefaultMode == "" {
		c.DefaultMode = model.ModeSmart.String()
	}
	if c.Baristas == 0 {
		c.Baristas = 3
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Lambda <= 0 {
		return fmt.Errorf("lambda must be positive")
	}
	if c.Baristas <= 0 {
		return fmt.Errorf("baristas must be positive")
	}
	if _, err := model.ParseQueueMode(c.DefaultMode); err != nil {
		return err
	}
	return nil
}
