package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var GConfig *Config

// Load resolves the process configuration once at startup. A missing config
// file is not an error; the defaults and environment still apply.
func Load(filePath string, envFiles ...string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		if err = initFromYaml(data, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filePath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}
	if err = loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	c.applyEnv(os.Getenv)
	if err = c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func initFromYaml(data []byte, c *Config) error {
	return yaml.Unmarshal(data, c)
}

// loadEnvFiles overrides already exported variables, like load_dotenv(override=True).
func loadEnvFiles(files ...string) error {
	for _, f := range files {
		err := godotenv.Overload(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

type Config struct {
	StorageSupplier string `yaml:"storage_supplier"`
	URLExpires      string `yaml:"url_expires"`
	LogLevel        string `yaml:"log_level"`
	LogFile         string `yaml:"log_file"`
	LogMaxSize      int    `yaml:"log_max_size"`
	LogMaxBackups   int    `yaml:"log_max_backups"`
	LogMaxAge       int    `yaml:"log_max_age"`
	OpenAI          `yaml:"openai"`
	Storage         `yaml:"storage"`
}

func Default() *Config {
	return &Config{
		StorageSupplier: "s3",
		URLExpires:      "1h",
		LogLevel:        "info",
		LogMaxSize:      100,
		LogMaxBackups:   3,
		LogMaxAge:       28,
		OpenAI: OpenAI{
			BaseURL: "http://localhost:5005/v1",
			APIKey:  "sk-ip",
		},
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&c.Storage.AccessKeyId, "AWS_ACCESS_KEY_ID")
	set(&c.Storage.AccessKeySecret, "AWS_SECRET_ACCESS_KEY")
	set(&c.Storage.Endpoint, "AWS_ENDPOINT")
	set(&c.Storage.Region, "AWS_REGION")
	set(&c.Storage.Bucket, "AWS_BUCKET")
	set(&c.StorageSupplier, "STORAGE_SUPPLIER")
	set(&c.URLExpires, "URL_EXPIRES")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.LogFile, "LOG_FILE")
}

func (c *Config) Verify() error {
	if c.StorageSupplier != "s3" && c.StorageSupplier != "ali_oss" {
		return fmt.Errorf("storage_supplier must be s3 or ali_oss, got %q", c.StorageSupplier)
	}
	d, err := time.ParseDuration(c.URLExpires)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("url_expires must be positive, got %s", c.URLExpires)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required (AWS_BUCKET)")
	}
	return nil
}

// URLExpiry is only valid after Verify.
func (c *Config) URLExpiry() time.Duration {
	d, _ := time.ParseDuration(c.URLExpires)
	return d
}

type OpenAI struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Storage holds credentials shared by the s3 and ali_oss suppliers.
type Storage struct {
	AccessKeyId     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Directory       string `yaml:"directory"`
}
