package domain

import "time"

// LogEntry is one audit record of an answered question. Append-only; never
// mutated after Record.
type LogEntry struct {
	ID        int64
	Tenant    string
	Question  string
	Answer    string
	Timestamp time.Time
	Latency   float64 // seconds, rounded to 2 decimals
}

// Summary describes the contents of a tenant namespace.
type Summary struct {
	Namespace  string
	ChunkCount int
	Sources    []string
}
