package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	S3      S3Config      `mapstructure:"s3"`
	JWT     JWTConfig     `mapstructure:"jwt"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// StaticDir is served at the root path when non-empty.
	StaticDir string `mapstructure:"static_dir"`
}

// StorageConfig points at the two JSON documents the app reads: the
// record store file (read-write) and the anatomy atlas (read-only).
type StorageConfig struct {
	DataFile  string `mapstructure:"data_file"`
	AtlasFile string `mapstructure:"atlas_file"`
}

type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

// JWTConfig defines JWT specific configuration.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys map to env vars, e.g. jwt.secret -> JWT_SECRET.
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.static_dir", "public")
	viper.SetDefault("storage.data_file", "data/data.json")
	viper.SetDefault("storage.atlas_file", "data/anatomy-atlas.json")
	viper.SetDefault("s3.enabled", false)
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("jwt.secret", "neurosurg-dev-secret")
	viper.SetDefault("jwt.expiration", "168h") // 7 days

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file is fine; defaults and env vars cover everything.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
