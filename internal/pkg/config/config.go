package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving duration configuration values.
type TimeConfig interface {
	// GetMillisecond retrieves the value associated with the key as milliseconds.
	GetMillisecond(key string) time.Duration

	// GetSecond retrieves the value associated with the key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with the key as minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
// Missing keys resolve to the zero value of the requested type unless a default
// was registered when the implementation was built.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt retrieves the value associated with the key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value associated with the key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value associated with the key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the value associated with the key as a float64.
	GetFloat64(key string) float64

	// GetBool retrieves the value associated with the key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with the key as a string.
	GetString(key string) string

	// GetBinary retrieves a base64 encoded value associated with the key as raw bytes.
	GetBinary(key string) []byte

	// GetArray retrieves the value associated with the key as a slice of strings.
	// Both YAML sequences and "<element1>,<element2>" strings are accepted.
	GetArray(key string) []string
}
