package domain

// DistanceMetric selects how the store compares vectors.
// The metric is fixed when a store is opened and never mixed; it must
// match the metric the embedding model was calibrated for.
type DistanceMetric string

const (
	// MetricSquaredEuclidean is the default metric.
	MetricSquaredEuclidean DistanceMetric = "sqeuclidean"

	// MetricCosine is cosine distance (1 - cosine similarity).
	MetricCosine DistanceMetric = "cosine"
)

// Valid reports whether m is a known metric.
func (m DistanceMetric) Valid() bool {
	return m == MetricSquaredEuclidean || m == MetricCosine
}

// Default engine configuration values.
const (
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 128
	DefaultSearchLimit  = 10
)

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider's API base URL.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates hosted providers.
	APIKey string `toml:"api_key"`

	// Dimensions is the embedding vector size. Must match the model.
	Dimensions int `toml:"dimensions"`

	// RequestsPerSecond caps embedding calls. Zero disables limiting.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Config is the engine configuration.
type Config struct {
	// DataDir is where the index database lives.
	DataDir string `toml:"data_dir"`

	// ChunkSize is the chunk window size in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive windows.
	ChunkOverlap int `toml:"chunk_overlap"`

	// Metric is the vector distance metric.
	Metric DistanceMetric `toml:"metric"`

	// Embedder configures the embedding provider.
	Embedder EmbedderConfig `toml:"embedder"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Metric:       MetricSquaredEuclidean,
		Embedder: EmbedderConfig{
			Provider:   "ollama",
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
	}
}

// Validate checks the configuration invariants that are fatal at startup.
func (c Config) Validate() error {
	if c.ChunkOverlap >= c.ChunkSize {
		return ErrInvalidChunkConfig
	}
	if !c.Metric.Valid() {
		return ErrInvalidInput
	}
	if c.Embedder.Dimensions <= 0 {
		return ErrDimensionMismatch
	}
	return nil
}
