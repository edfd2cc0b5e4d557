package model

// Product is a catalog entry with a stock counter. Stock is only mutated by
// the atomic decrement in the product repository.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Stock       int
}
