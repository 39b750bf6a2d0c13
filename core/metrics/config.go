package metrics

// Config holds configuration for the Prometheus endpoint.
type Config struct {
	// Enabled starts the /metrics listener in the start command.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Listen is the address the /metrics listener binds to.
	Listen string `mapstructure:"listen" default:":9102"`
}
