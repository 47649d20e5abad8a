package simulation

import "fmt"

// Config defines rush-hour simulation parameters.
type Config struct {
	// Orders is the number of synthetic arrivals.
	Orders int `json:"orders"`
	// Lambda is the mean arrival rate in customers per minute.
	Lambda float64 `json:"lambda"`
	// HorizonMinutes bounds the virtual clock. The rush-hour window is
	// 3 hours; orders still queued at the horizon are abandoned.
	HorizonMinutes float64 `json:"horizon_minutes"`
	// StepMinutes is the virtual clock increment per iteration.
	StepMinutes float64 `json:"step_minutes"`
	// Baristas is the simulated server count per policy.
	Baristas int `json:"baristas"`
	// Seed fixes the RNG; 0 seeds from the wall clock.
	Seed int64 `json:"seed"`
}

// SetDefaults fills unset fields with the standard rush-hour setup.
func (c *Config) SetDefaults() {
	if c.Orders == 0 {
		c.Orders = 100
	}
	if c.Lambda == 0 {
		c.Lambda = 1.4
	}
	if c.HorizonMinutes == 0 {
		c.HorizonMinutes = 180
	}
	if c.StepMinutes == 0 {
		c.StepMinutes = 0.5
	}
	if c.Baristas == 0 {
		c.Baristas = 3
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Orders <= 0 {
		return fmt.Errorf("orders must be positive")
	}
	if c.Lambda <= 0 {
		return fmt.Errorf("lambda must be positive")
	}
	if c.HorizonMinutes <= 0 {
		return fmt.Errorf("horizon_minutes must be positive")
	}
	if c.StepMinutes <= 0 {
		return fmt.Errorf("step_minutes must be positive")
	}
	if c.Baristas <= 0 {
		return fmt.Errorf("baristas must be positive")
	}
	return nil
}
