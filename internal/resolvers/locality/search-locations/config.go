// internal/resolvers/locality/search-locations/config.go
package searchlocations

type Config struct {
	// LogActivity records a SEARCH entry for every search.
	LogActivity bool
}

func LoadConfig(serverSideLogging bool) *Config {
	return &Config{LogActivity: serverSideLogging}
}
