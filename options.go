package mentor

import "go.uber.org/zap"

// clientConfig holds Client construction settings.
type clientConfig struct {
	driver   string
	addrs    []string
	password string
	path     string

	kbPath        string
	materialsPath string
	threshold     float64
	keyPrefix     string
	logger        *zap.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		driver:        "sqlite",
		path:          "mentor.db",
		kbPath:        "kb.json",
		materialsPath: "materials.json",
		threshold:     0.35,
		keyPrefix:     "mentor:",
		logger:        zap.NewNop(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithRedis stores the interaction ledger in Redis.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
		c.password = password
	}
}

// WithSQLite stores the interaction ledger in a local SQLite file.
// This is the default, with path "mentor.db".
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.driver = "sqlite"
		c.path = path
	}
}

// WithCorpus sets the knowledge-base and material catalog file paths.
func WithCorpus(kbPath, materialsPath string) Option {
	return func(c *clientConfig) {
		c.kbPath = kbPath
		c.materialsPath = materialsPath
	}
}

// WithThreshold sets the similarity confidence threshold (default 0.35).
func WithThreshold(threshold float64) Option {
	return func(c *clientConfig) { c.threshold = threshold }
}

// WithKeyPrefix namespaces the ledger streams in the store (default "mentor:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithLogger sets the logger used by the services (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}
