// Package config reads service configuration.
//
// Structured settings come from a viper backed Config (a file watched for
// changes, or environment variables when running in Lambda). Single values and
// KMS encrypted secrets are read with Env and EncryptedEnv.
package config

import (
	"io"
	"time"
)

// Config defines the typed accessors used by the application shell.
// Missing keys yield zero values.
type Config interface {
	io.Closer
	Environment

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond reads an integer as a number of seconds.
	GetSecond(key string) time.Duration

	// GetArray reads a "a,b,c" value or a list.
	GetArray(key string) []string

	// GetMap reads a "k1:v1,k2:v2" value or a mapping.
	GetMap(key string) map[string]string
}
