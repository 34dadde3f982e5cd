package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"gemini"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"gemini-2.5-flash"`
		MaxTokens   int           `yaml:"max_tokens" default:"8192"`
		Temperature float32       `yaml:"temperature" default:"0.7"`
		Timeout     time.Duration `yaml:"timeout" default:"120s"`
		RateLimit   int           `yaml:"rate_limit" default:"10"` // requests per minute
	} `yaml:"llm"`

	LaTeX struct {
		Compiler string        `yaml:"compiler" default:"pdflatex"`
		Timeout  time.Duration `yaml:"timeout" default:"30s"`
		Enabled  bool          `yaml:"enabled" default:"true"`
	} `yaml:"latex"`

	Templates struct {
		Dir     string `yaml:"dir" default:"templates"`
		Default string `yaml:"default" default:"cv_template"`
	} `yaml:"templates"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
		Enabled  bool          `yaml:"enabled" default:"false"`
		TTL      time.Duration `yaml:"ttl" default:"24h"`
	} `yaml:"redis"`

	Analytics struct {
		MeasurementID string        `yaml:"measurement_id"`
		APISecret     string        `yaml:"api_secret"`
		Endpoint      string        `yaml:"endpoint" default:"https://www.google-analytics.com/mp/collect"`
		Timeout       time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"analytics"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	// Expand $VAR syntax (but avoid replacing ${VAR} that was already processed)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.LLM.Provider = "gemini"
	config.LLM.Model = "gemini-2.5-flash"
	config.LLM.MaxTokens = 8192
	config.LLM.Temperature = 0.7
	config.LLM.Timeout = 120 * time.Second
	config.LLM.RateLimit = 10

	config.LaTeX.Compiler = "pdflatex"
	config.LaTeX.Timeout = 30 * time.Second
	config.LaTeX.Enabled = true

	config.Templates.Dir = "templates"
	config.Templates.Default = "cv_template"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second
	config.Redis.TTL = 24 * time.Hour

	config.Analytics.Endpoint = "https://www.google-analytics.com/mp/collect"
	config.Analytics.Timeout = 5 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	// Provider-specific key variables, matching each vendor's convention
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "claude":
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if rateLimit := os.Getenv("LLM_RATE_LIMIT"); rateLimit != "" {
		if limit, err := strconv.Atoi(rateLimit); err == nil {
			c.LLM.RateLimit = limit
		}
	}

	if compiler := os.Getenv("LATEX_COMPILER"); compiler != "" {
		c.LaTeX.Compiler = compiler
	}

	if timeout := os.Getenv("LATEX_TIMEOUT"); timeout != "" {
		if duration, err := time.ParseDuration(timeout); err == nil {
			c.LaTeX.Timeout = duration
		}
	}

	if enabled := os.Getenv("LATEX_ENABLED"); enabled != "" {
		c.LaTeX.Enabled = enabled == "true" || enabled == "1"
	}

	if dir := os.Getenv("TEMPLATES_DIR"); dir != "" {
		c.Templates.Dir = dir
	}

	if name := os.Getenv("TEMPLATES_DEFAULT"); name != "" {
		c.Templates.Default = name
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		c.Redis.Enabled = redisEnabled == "true" || redisEnabled == "1"
	}

	if ttl := os.Getenv("ARTIFACT_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			c.Redis.TTL = duration
		}
	}

	if measurementID := os.Getenv("GA_MEASUREMENT_ID"); measurementID != "" {
		c.Analytics.MeasurementID = measurementID
	}

	if apiSecret := os.Getenv("GA_API_SECRET"); apiSecret != "" {
		c.Analytics.APISecret = apiSecret
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
