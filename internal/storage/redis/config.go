package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings. Player and room records are ephemeral session state;
	// the TTL is a backstop for records the cleanup sweep misses after an
	// unclean shutdown.
	PlayerTTL time.Duration
	RoomTTL   time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		PlayerTTL:    24 * time.Hour,
		RoomTTL:      24 * time.Hour,
	}
}
