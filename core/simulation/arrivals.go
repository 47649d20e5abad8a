package simulation

import (
	"math"
	"math/rand"

	"github.com/coffeehub/smartqueue/core/model"
)

// arrival is one synthetic order of the rush-hour stream.
type arrival struct {
	at       float64 // minutes from the start of the rush
	drink    model.DrinkType
	customer model.CustomerType
}

// generateArrivals draws a Poisson arrival stream: exponential inter-arrival
// gaps -ln(1-U)/lambda, cumulated into strictly increasing timestamps. Drinks
// are uniform over the catalog; customer tiers follow the 20/50/30
// premium/regular/new rush-hour split.
func generateArrivals(cfg Config, rng *rand.Rand) []arrival {
	drinks := model.DrinkTypes()
	out := make([]arrival, cfg.Orders)
	clock := 0.0
	for i := range out {
		clock += -math.Log(1-rng.Float64()) / cfg.Lambda
		out[i] = arrival{
			at:       clock,
			drink:    drinks[rng.Intn(len(drinks))],
			customer: rushCustomer(rng),
		}
	}
	return out
}

func rushCustomer(rng *rand.Rand) model.CustomerType {
	r := rng.Float64()
	switch {
	case r < 0.2:
		return model.Premium
	case r < 0.7:
		return model.Regular
	default:
		return model.NewCustomer
	}
}
