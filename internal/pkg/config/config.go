package config

import (
    "fmt"
    "github.com/spf13/viper"
)

type Config struct {
    // Document store
    MongoURI        string `mapstructure:"MONGO_URI"`
    MongoDatabase   string `mapstructure:"MONGO_DATABASE"`
    MongoCollection string `mapstructure:"MONGO_COLLECTION"`

    // Fetch stage
    NumConnections int     `mapstructure:"NUM_CONNECTIONS"`
    PerHostLimit   int     `mapstructure:"PER_HOST_LIMIT"`
    FetchRPS       float64 `mapstructure:"FETCH_RPS"`
    UserAgent      string  `mapstructure:"USER_AGENT"`

    // Extraction stage
    QueueCapacity int `mapstructure:"QUEUE_CAPACITY"`
    NumWorkers    int `mapstructure:"NUM_WORKERS"`
    BatchSize     int `mapstructure:"BATCH_SIZE"`

    MetricsAddr string `mapstructure:"METRICS_ADDR"`
    LogLevel    string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
    // Set defaults for configuration values
    viper.SetDefault("MONGO_URI", "mongodb://localhost:27200")
    viper.SetDefault("MONGO_DATABASE", "web_corpus")
    viper.SetDefault("MONGO_COLLECTION", "sitemaps")

    // Fetch defaults mirror the crawl's historical limits: eight requests
    // in flight globally, fifty connections per host.
    viper.SetDefault("NUM_CONNECTIONS", 8)
    viper.SetDefault("PER_HOST_LIMIT", 50)
    // 0 disables request pacing entirely
    viper.SetDefault("FETCH_RPS", 0.0)
    viper.SetDefault("USER_AGENT", "webcorpus/1.0 (+corpus crawler)")

    viper.SetDefault("QUEUE_CAPACITY", 1000)
    viper.SetDefault("NUM_WORKERS", 4)
    viper.SetDefault("BATCH_SIZE", 100)

    viper.SetDefault("METRICS_ADDR", ":9090")
    viper.SetDefault("LOG_LEVEL", "info")

    viper.AutomaticEnv()

    var config Config
    if err := viper.Unmarshal(&config); err != nil {
        return nil, fmt.Errorf("failed to unmarshal config: %w", err)
    }
    return &config, nil
}
