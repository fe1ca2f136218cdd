package paging

import "fmt"

// Order represents the direction of a scan.
type Order string

const (
	Ascending  Order = "asc"  // Ascending order
	Descending Order = "desc" // Descending order
)

// Valid reports whether o is a known direction.
func (o Order) Valid() bool {
	return o == Ascending || o == Descending
}

// ParseOrder parses a direction tag.
func ParseOrder(s string) (Order, error) {
	o := Order(s)
	if !o.Valid() {
		return "", fmt.Errorf("invalid order %q", s)
	}
	return o, nil
}
