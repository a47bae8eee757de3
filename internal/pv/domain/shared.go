package pv

import (
	"errors"
	"strings"

	consumption "pv-report/internal/consumption/domain"
)

// ErrInvalidGroup is returned for a shared production group with an empty or repeated POD.
var ErrInvalidGroup = errors.New("pv: invalid shared production group")

// SharedGroup is a pair of PODs splitting one installation's production in
// proportion to their consumption.
type SharedGroup struct {
	A string
	B string
}

// NewSharedGroup validates and constructs a group.
func NewSharedGroup(a, b string) (SharedGroup, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" || a == b {
		return SharedGroup{}, ErrInvalidGroup
	}
	return SharedGroup{A: a, B: b}, nil
}

// Shares returns, for every POD belonging to a group, its share of the group's
// combined Totale Energia in table. A group with zero combined consumption gives
// both members a share of 0. When a POD appears in several groups the last wins.
func Shares(groups []SharedGroup, table *consumption.MonthTable) map[string]float64 {
	shares := make(map[string]float64, 2*len(groups))
	for _, g := range groups {
		a := table.TotalEnergy(g.A)
		b := table.TotalEnergy(g.B)
		total := a + b
		if total > 0 {
			shares[g.A] = a / total
			shares[g.B] = b / total
		} else {
			shares[g.A] = 0
			shares[g.B] = 0
		}
	}
	return shares
}
