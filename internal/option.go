package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config

	// mcpOnly switches the process into MCP stdio mode instead of
	// serving HTTP.
	mcpOnly bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMCPServer runs the process as an MCP stdio server instead of the
// HTTP site service.
func WithMCPServer() Option {
	return func(a *application) {
		a.mcpOnly = true
	}
}
