package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Riot      RiotConfig      `mapstructure:"riot"`
	Narrator  NarratorConfig  `mapstructure:"narrator"`
	OSS       OSSConfig       `mapstructure:"oss"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Features  FeaturesConfig  `mapstructure:"features"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite or mysql
	Path         string `mapstructure:"path"`   // sqlite file path
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type QueueConfig struct {
	RewindQueue string `mapstructure:"rewind_queue"`
	MaxWorkers  int    `mapstructure:"max_workers"`
}

// NameOrDefault returns the redis list key the queue lives on.
func (q *QueueConfig) NameOrDefault() string {
	if q.RewindQueue == "" {
		return "rewind_jobs"
	}
	return q.RewindQueue
}

type RiotConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"` // override for tests; empty means the real routing hosts
	ListCount       int    `mapstructure:"list_count"`
	RewindFetchCap  int    `mapstructure:"rewind_fetch_cap"`
	CompareFetchCap int    `mapstructure:"compare_fetch_cap"`
}

// ListCountOrDefault bounds the match-id listing per player. Riot caps the
// ids endpoint at 100 per request.
func (r *RiotConfig) ListCountOrDefault() int {
	if r.ListCount <= 0 || r.ListCount > 100 {
		return 100
	}
	return r.ListCount
}

// RewindCapOrDefault bounds match detail fetches for a rewind job.
func (r *RiotConfig) RewindCapOrDefault() int {
	if r.RewindFetchCap <= 0 {
		return 50
	}
	return r.RewindFetchCap
}

// CompareCapOrDefault bounds match detail fetches per player in a compare job.
func (r *RiotConfig) CompareCapOrDefault() int {
	if r.CompareFetchCap <= 0 {
		return 30
	}
	return r.CompareFetchCap
}

type NarratorConfig struct {
	Provider string `mapstructure:"provider"` // gemini or static
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type FeaturesConfig struct {
	Rewind  bool `mapstructure:"rewind"`
	Compare bool `mapstructure:"compare"`
}

type RetentionConfig struct {
	JobTTLHours int `mapstructure:"job_ttl_hours"`
}

// TTLHoursOrDefault falls back to a week when unset.
func (r *RetentionConfig) TTLHoursOrDefault() int {
	if r.JobTTLHours <= 0 {
		return 7 * 24
	}
	return r.JobTTLHours
}

func Load(configPath string) (*Config, error) {
	// Prefer config.local.yaml (real keys, not committed to git) when present.
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Environment variables override file values.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
