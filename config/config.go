package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	OpenAI   OpenAIConfig
	Upstream UpstreamConfig
}

type AppConfig struct {
	Port               string
	Env                string
	FrontendOrigin     string
	UploadMaxBytes     int64
	ChatRatePerMinute  int
	AnalysisPrefixSize int
}

type DBConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig points at the S3 endpoint of the hosted object storage.
// Driver "memory" keeps objects in process, for local development only.
type StorageConfig struct {
	Driver        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	UseSSL        bool
	BucketGenetic string
	BucketReports string
}

type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	ModelAnalysis string
	ModelChat     string
}

type UpstreamConfig struct {
	Timeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	upstreamTimeout, err := time.ParseDuration(viper.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		upstreamTimeout = 30 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:               viper.GetString("APP_PORT"),
			Env:                viper.GetString("APP_ENV"),
			FrontendOrigin:     viper.GetString("FRONTEND_ORIGIN"),
			UploadMaxBytes:     viper.GetInt64("UPLOAD_MAX_BYTES"),
			ChatRatePerMinute:  viper.GetInt("CHAT_RATE_PER_MINUTE"),
			AnalysisPrefixSize: viper.GetInt("ANALYSIS_PROMPT_PREFIX_BYTES"),
		},
		DB: DBConfig{
			URL:      viper.GetString("DB_URL"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Storage: StorageConfig{
			Driver:        viper.GetString("STORAGE_DRIVER"),
			Endpoint:      viper.GetString("STORAGE_ENDPOINT"),
			AccessKey:     viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:     viper.GetString("STORAGE_SECRET_KEY"),
			Region:        viper.GetString("STORAGE_REGION"),
			UseSSL:        viper.GetBool("STORAGE_USE_SSL"),
			BucketGenetic: viper.GetString("STORAGE_BUCKET_GENETIC"),
			BucketReports: viper.GetString("STORAGE_BUCKET_REPORTS"),
		},
		OpenAI: OpenAIConfig{
			APIKey:        viper.GetString("OPENAI_API_KEY"),
			BaseURL:       viper.GetString("OPENAI_BASE_URL"),
			ModelAnalysis: viper.GetString("OPENAI_MODEL_ANALYSIS"),
			ModelChat:     viper.GetString("OPENAI_MODEL_CHATBOT"),
		},
		Upstream: UpstreamConfig{
			Timeout: upstreamTimeout,
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "dev")
	viper.SetDefault("FRONTEND_ORIGIN", "http://localhost:8030")
	viper.SetDefault("UPLOAD_MAX_BYTES", 50<<20)
	viper.SetDefault("CHAT_RATE_PER_MINUTE", 20)
	viper.SetDefault("ANALYSIS_PROMPT_PREFIX_BYTES", 5000)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "require")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("STORAGE_DRIVER", "s3")
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_BUCKET_GENETIC", "vcf-files")
	viper.SetDefault("STORAGE_BUCKET_REPORTS", "reportes")
	viper.SetDefault("OPENAI_MODEL_ANALYSIS", "gpt-4o")
	viper.SetDefault("OPENAI_MODEL_CHATBOT", "gpt-3.5-turbo")
}
