package model

import "time"

// Customer is created lazily the first time an approved order carries its
// email. Orders reference customers via a soft link only.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
