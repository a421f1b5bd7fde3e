package entity

import "time"

const (
	MinCodeLength = 4
	MaxCodeLength = 12
	MinTTLSeconds = 30
	MaxTTLSeconds = 3600
)

// DefaultPolicy is installed the first time the policy is read.
var DefaultPolicy = Policy{CodeLength: 6, TTLSeconds: 300}

type Policy struct {
	CodeLength int
	TTLSeconds int
}

func (p Policy) Valid() bool {
	return p.CodeLength >= MinCodeLength && p.CodeLength <= MaxCodeLength &&
		p.TTLSeconds >= MinTTLSeconds && p.TTLSeconds <= MaxTTLSeconds
}

func (p Policy) TTL() time.Duration {
	return time.Duration(p.TTLSeconds) * time.Second
}
