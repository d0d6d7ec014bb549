package model

import "time"

// Namespace groups accounts within an organization. Like AccountType it is
// protected from removal while any account references it.
type Namespace struct {
	ID        int64
	OrgID     string
	Name      string
	Comment   string
	CreatedAt time.Time
}
