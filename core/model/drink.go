package model

import (
	"fmt"
	"strings"
)

// DrinkType identifies an entry of the fixed drink catalog.
type DrinkType int

const (
	ColdBrew DrinkType = iota
	Espresso
	Americano
	Cappuccino
	Latte
	Mocha
)

type drinkSpec struct {
	name        string
	displayName string
	prepMinutes float64
	complexity  int
	price       string
}

var drinkSpecs = [...]drinkSpec{
	ColdBrew:   {"cold_brew", "Cold Brew", 1.0, 10, "₹120"},
	Espresso:   {"espresso", "Espresso", 2.0, 15, "₹150"},
	Americano:  {"americano", "Americano", 2.0, 12, "₹140"},
	Cappuccino: {"cappuccino", "Cappuccino", 4.0, 20, "₹180"},
	Latte:      {"latte", "Latte", 4.0, 18, "₹200"},
	Mocha:      {"mocha", "Specialty (Mocha)", 6.0, 25, "₹250"},
}

// DrinkTypes returns the full catalog in declaration order.
func DrinkTypes() []DrinkType {
	out := make([]DrinkType, len(drinkSpecs))
	for i := range drinkSpecs {
		out[i] = DrinkType(i)
	}
	return out
}

// ParseDrinkType resolves a caller-supplied drink name. Unknown names are
// rejected at the boundary and never reach scheduler state.
func ParseDrinkType(name string) (DrinkType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range drinkSpecs {
		if s.name == n {
			return DrinkType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown drink type %q", name)
}

func (d DrinkType) valid() bool { return d >= 0 && int(d) < len(drinkSpecs) }

func (d DrinkType) String() string {
	if !d.valid() {
		return "unknown"
	}
	return drinkSpecs[d].name
}

// DisplayName returns the customer-facing name.
func (d DrinkType) DisplayName() string {
	if !d.valid() {
		return "unknown"
	}
	return drinkSpecs[d].displayName
}

// PrepMinutes returns the fixed preparation time in minutes.
func (d DrinkType) PrepMinutes() float64 {
	if !d.valid() {
		return 0
	}
	return drinkSpecs[d].prepMinutes
}

// Complexity returns the complexity score of the drink.
func (d DrinkType) Complexity() int {
	if !d.valid() {
		return 0
	}
	return drinkSpecs[d].complexity
}

// Price returns the display price label.
func (d DrinkType) Price() string {
	if !d.valid() {
		return ""
	}
	return drinkSpecs[d].price
}

// MarshalText serializes the drink as its catalog name.
func (d DrinkType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// MaxPrepMinutes is the longest preparation time across the catalog, used as
// the normalization base of the complexity score.
func MaxPrepMinutes() float64 {
	max := 0.0
	for _, s := range drinkSpecs {
		if s.prepMinutes > max {
			max = s.prepMinutes
		}
	}
	return max
}
