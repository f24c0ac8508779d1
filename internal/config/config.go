package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Stores     StoreConfig      `mapstructure:"stores"`
	Library    LibraryConfig    `mapstructure:"library"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Producers  ProducerConfig   `mapstructure:"producers"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// StoreConfig locates the precomputed score blobs and the weight blob.
// All four must exist before the engine starts serving.
type StoreConfig struct {
	ContentScorePath string `mapstructure:"content_score_path"`
	CFScorePath      string `mapstructure:"cf_score_path"`
	RecencyScorePath string `mapstructure:"recency_score_path"`
	WeightPath       string `mapstructure:"weight_path"`
	CorpusPath       string `mapstructure:"corpus_path"`
}

type LibraryConfig struct {
	Driver         string        `mapstructure:"driver"` // postgres, sqlite
	URL            string        `mapstructure:"url"`
	Path           string        `mapstructure:"path"`
	MaxConnections int           `mapstructure:"max_connections"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig configures the optional recommendation result cache. An
// empty address disables caching entirely.
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// KafkaConfig configures the optional feedback event bus. An empty broker
// list disables it and feedback is only accepted through direct calls.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		Feedback string `mapstructure:"feedback"`
	} `mapstructure:"topics"`
	ConsumerGroup string `mapstructure:"consumer_group"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type EngineConfig struct {
	DefaultTopN int     `mapstructure:"default_top_n"`
	ClickBoost  float64 `mapstructure:"click_boost"`
	Decay       float64 `mapstructure:"decay"`
	// RecentPrefix marks the currently-tracked recent publication window;
	// an identifier carrying it counts as recently published for weight
	// adaptation and explanations.
	RecentPrefix string `mapstructure:"recent_prefix"`
	// ContentWeightForCF restores the historical blend behavior where the
	// collaborative-filtering contribution was multiplied by the content
	// weight instead of the cf weight. Off by default.
	ContentWeightForCF bool          `mapstructure:"content_weight_for_cf"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	BootstrapWeights   struct {
		Content float64 `mapstructure:"content"`
		CF      float64 `mapstructure:"cf"`
		Recency float64 `mapstructure:"recency"`
	} `mapstructure:"bootstrap_weights"`
}

type ProducerConfig struct {
	ContentCandidates int      `mapstructure:"content_candidates"`
	MaxNeighbors      int      `mapstructure:"max_neighbors"`
	RecentPrefixes    []string `mapstructure:"recent_prefixes"`
}

type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Store defaults
	viper.SetDefault("stores.content_score_path", "./data/svm_score.json")
	viper.SetDefault("stores.cf_score_path", "./data/cf_score.json")
	viper.SetDefault("stores.recency_score_path", "./data/time_score.json")
	viper.SetDefault("stores.weight_path", "./data/type_weight.json")
	viper.SetDefault("stores.corpus_path", "./data/corpus.json")

	// Library defaults
	viper.SetDefault("library.driver", "sqlite")
	viper.SetDefault("library.path", "./data/as.db")
	viper.SetDefault("library.max_connections", 10)
	viper.SetDefault("library.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")

	// Kafka defaults
	viper.SetDefault("kafka.topics.feedback", "paper-feedback")
	viper.SetDefault("kafka.consumer_group", "weight-adapters")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Engine defaults
	viper.SetDefault("engine.default_top_n", 1000)
	viper.SetDefault("engine.click_boost", 1.1)
	viper.SetDefault("engine.decay", 0.95)
	viper.SetDefault("engine.recent_prefix", "1705")
	viper.SetDefault("engine.content_weight_for_cf", false)
	viper.SetDefault("engine.cache_ttl", "15m")
	viper.SetDefault("engine.bootstrap_weights.content", 1.0)
	viper.SetDefault("engine.bootstrap_weights.cf", 1.0)
	viper.SetDefault("engine.bootstrap_weights.recency", 0.1)

	// Producer defaults
	viper.SetDefault("producers.content_candidates", 200)
	viper.SetDefault("producers.max_neighbors", 300)
	viper.SetDefault("producers.recent_prefixes", []string{"170", "160"})

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
}
