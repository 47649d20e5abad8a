package model

import (
	"fmt"
	"strings"
)

// CustomerType classifies a customer tier. The tier fixes the abandonment
// timeout and the loyalty bonus entering the priority formula.
type CustomerType int

const (
	Premium CustomerType = iota
	Regular
	NewCustomer
)

type customerSpec struct {
	name           string
	displayName    string
	timeoutMinutes float64
	loyaltyBonus   int
}

var customerSpecs = [...]customerSpec{
	Premium:     {"premium", "Premium Member", 10.0, 10},
	Regular:     {"regular", "Regular", 10.0, 0},
	NewCustomer: {"new", "New Customer", 8.0, 0},
}

// ParseCustomerType resolves a caller-supplied tier name.
func ParseCustomerType(name string) (CustomerType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range customerSpecs {
		if s.name == n {
			return CustomerType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown customer type %q", name)
}

func (c CustomerType) valid() bool { return c >= 0 && int(c) < len(customerSpecs) }

func (c CustomerType) String() string {
	if !c.valid() {
		return "unknown"
	}
	return customerSpecs[c].name
}

// DisplayName returns the customer-facing tier name.
func (c CustomerType) DisplayName() string {
	if !c.valid() {
		return "unknown"
	}
	return customerSpecs[c].displayName
}

// TimeoutMinutes is the tier's abandonment threshold. It also anchors the
// urgency ramp of the priority formula.
func (c CustomerType) TimeoutMinutes() float64 {
	if !c.valid() {
		return 0
	}
	return customerSpecs[c].timeoutMinutes
}

// LoyaltyBonus returns the tier bonus in [0,10].
func (c CustomerType) LoyaltyBonus() int {
	if !c.valid() {
		return 0
	}
	return customerSpecs[c].loyaltyBonus
}

// MarshalText serializes the tier as its lowercase name.
func (c CustomerType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
