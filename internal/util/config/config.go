package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the route generation service. Values come from
// defaults, an optional config file, and STRIDE_-prefixed environment variables,
// in increasing order of precedence.
type Config struct {
	ListenAddress string
	ListenPort    string

	OSRMBaseURL    string
	OverpassAPIURL string

	HTTPTimeout   time.Duration
	RouterRetries int
	RouterBackoff time.Duration
	OverpassRPS   float64

	CandidateCount int

	// FallbackPaceMinPerKm estimates route time when the external router is
	// unavailable. A placeholder model, not validated against real pace data.
	FallbackPaceMinPerKm float64

	// Elevation gain estimate: BaseM + PerKmM*distance + PerVariantM*variant.
	ElevationBaseM       float64
	ElevationPerKmM      float64
	ElevationPerVariantM float64
}

// Load reads the configuration, falling back to defaults when no config file
// is present. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("listen.address", "127.0.0.1")
	v.SetDefault("listen.port", "8080")
	v.SetDefault("osrm.base_url", "https://router.project-osrm.org/route/v1/foot")
	v.SetDefault("overpass.api_url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("http.timeout", 5*time.Second)
	v.SetDefault("router.retries", 2)
	v.SetDefault("router.backoff", 500*time.Millisecond)
	v.SetDefault("overpass.rps", 2.0)
	v.SetDefault("candidates.count", 3)
	v.SetDefault("fallback.pace_min_per_km", 6.0)
	v.SetDefault("elevation.base_m", 5.0)
	v.SetDefault("elevation.per_km_m", 3.0)
	v.SetDefault("elevation.per_variant_m", 2.0)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./data/")
	v.SetEnvPrefix("STRIDE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		ListenAddress:        v.GetString("listen.address"),
		ListenPort:           v.GetString("listen.port"),
		OSRMBaseURL:          v.GetString("osrm.base_url"),
		OverpassAPIURL:       v.GetString("overpass.api_url"),
		HTTPTimeout:          v.GetDuration("http.timeout"),
		RouterRetries:        v.GetInt("router.retries"),
		RouterBackoff:        v.GetDuration("router.backoff"),
		OverpassRPS:          v.GetFloat64("overpass.rps"),
		CandidateCount:       v.GetInt("candidates.count"),
		FallbackPaceMinPerKm: v.GetFloat64("fallback.pace_min_per_km"),
		ElevationBaseM:       v.GetFloat64("elevation.base_m"),
		ElevationPerKmM:      v.GetFloat64("elevation.per_km_m"),
		ElevationPerVariantM: v.GetFloat64("elevation.per_variant_m"),
	}, nil
}
