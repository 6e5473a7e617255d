package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env             string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN             string            `yaml:"dsn" env:"DSN" env-required:"true"`
	AccessTokenTTL  time.Duration     `yaml:"access_token_ttl" env-default:"15m"`
	RefreshTokenTTL time.Duration     `yaml:"refresh_token_ttl" env-default:"720h"`
	JWTSecret       string            `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	SessionSecret   string            `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
	HTTP            HTTPConfig        `yaml:"http"`
	FileStorage     FileStorageConfig `yaml:"file_storage"`
	Redis           RedisConf         `yaml:"redis"`
	Cache           CacheConfig       `yaml:"cache"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	AllowOrigins    []string      `yaml:"allow_origins" env-default:"*"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
	MaxSize int64  `yaml:"max_size" env-default:"5242880"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"`
}

// CacheConfig управляет in-memory кэшем топа и категорий
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl" env-default:"1m"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env-default:"5m"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := LoadPath(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

// LoadPath reads the YAML file and lets environment variables override it.
func LoadPath(configPath string) (*Config, error) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &os.PathError{Op: "config", Path: configPath, Err: os.ErrNotExist}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
