package entity

import "time"

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusUsed    Status = "USED"
	StatusExpired Status = "EXPIRED"
)

func (s Status) String() string {
	return string(s)
}

// Record is one issued code. Only ACTIVE records can be consumed, and a
// record leaves ACTIVE at most once.
type Record struct {
	ID          int64
	UserID      int64
	OperationID string
	Code        string
	Status      Status
	CreatedAt   time.Time
	ExpiresAt   time.Time
}
