package model

import "time"

// AccountType classifies accounts (e.g. "database", "host", "cloud"). Many
// accounts may reference one type; a type cannot be removed while referenced.
type AccountType struct {
	ID        int64
	Name      string
	Comment   string
	CreatedAt time.Time
}
