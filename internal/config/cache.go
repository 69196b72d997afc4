package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache in front of the public
// availability listing.  Entries are also purged explicitly whenever a
// quota changes, so TTL only bounds how long an idle entry lives.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // upper-case HTTP methods that may be cached
	TTL          time.Duration
	KeyStrategy  string // route | route_query | method_route | method_route_query
	Prefix       string
	MaxBodyBytes int
}

// Caches reports whether responses to method may be stored.
func (c CacheConfig) Caches(method string) bool {
	return c.Methods[strings.ToUpper(method)]
}

// LoadCacheConfig reads the CACHE_* variables.  Unset or unparsable
// values fall back to the defaults.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      map[string]bool{},
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       envStr("CACHE_PREFIX", "cards:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	for _, m := range strings.Split(envStr("CACHE_METHODS", "GET"), ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			cfg.Methods[m] = true
		}
	}
	return cfg
}
