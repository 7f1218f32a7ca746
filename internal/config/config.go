package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service. Every field is read from
// the environment variable named in its tag.
type Config struct {
	AppEnv string `mapstructure:"APP_ENV"`
	Port   int    `mapstructure:"PORT"`

	LLMProvider    string  `mapstructure:"LLM_PROVIDER"`
	OpenAIAPIKey   string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel    string  `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL  string  `mapstructure:"OPENAI_BASE_URL"`
	GeminiAPIKey   string  `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string  `mapstructure:"GEMINI_MODEL"`
	LLMMaxTokens   int     `mapstructure:"LLM_MAX_TOKENS"`
	LLMTemperature float64 `mapstructure:"LLM_TEMPERATURE"`

	ChunkMaxLength  int    `mapstructure:"CHUNK_MAX_LENGTH"`
	SectionMaxItems int    `mapstructure:"SECTION_MAX_ITEMS"`
	VisionStrategy  string `mapstructure:"VISION_STRATEGY"`
	RasterDPI       int    `mapstructure:"RASTER_DPI"`
	PromptDir       string `mapstructure:"PROMPT_DIR"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	R2Endpoint  string `mapstructure:"R2_ENDPOINT"`
	R2AccessKey string `mapstructure:"R2_ACCESS_KEY"`
	R2SecretKey string `mapstructure:"R2_SECRET_KEY"`
	R2Bucket    string `mapstructure:"R2_BUCKET_NAME"`

	ServiceJWTSecret string `mapstructure:"SERVICE_JWT_SECRET"`
	CORSOrigins      string `mapstructure:"CORS_ORIGINS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", 8080)

	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4.1-mini")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("LLM_MAX_TOKENS", 4096)
	v.SetDefault("LLM_TEMPERATURE", 0.2)

	v.SetDefault("CHUNK_MAX_LENGTH", 2000)
	v.SetDefault("SECTION_MAX_ITEMS", 60)
	v.SetDefault("VISION_STRATEGY", "two_step")
	v.SetDefault("RASTER_DPI", 200)
	v.SetDefault("PROMPT_DIR", "")

	v.SetDefault("DATABASE_URL", "")

	v.SetDefault("R2_ENDPOINT", "")
	v.SetDefault("R2_ACCESS_KEY", "")
	v.SetDefault("R2_SECRET_KEY", "")
	v.SetDefault("R2_BUCKET_NAME", "")

	v.SetDefault("SERVICE_JWT_SECRET", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads .env (outside production) and the environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	return &cfg, nil
}

// Validate lists every required key that is missing.
func (c *Config) Validate() error {
	var missing []string
	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	for k, val := range map[string]string{
		"R2_ENDPOINT":    c.R2Endpoint,
		"R2_ACCESS_KEY":  c.R2AccessKey,
		"R2_SECRET_KEY":  c.R2SecretKey,
		"R2_BUCKET_NAME": c.R2Bucket,
	} {
		if val == "" {
			missing = append(missing, k)
		}
	}

	switch c.VisionStrategy {
	case "two_step", "sections":
	default:
		return fmt.Errorf("unknown VISION_STRATEGY %q", c.VisionStrategy)
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Origins splits CORS_ORIGINS.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
