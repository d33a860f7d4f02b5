package config

import "time"

// Application-wide constants organized by domain

// Activity Constants
const (
	DefaultActivityLimit  = 20
	MaxActivityLimit      = 100
	DefaultRecentActivity = 5
)

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	CatalogLoadTimeout  = 30 * time.Second
	ShutdownTimeout     = 10 * time.Second

	SlowQueryThreshold = 200 * time.Millisecond
)
