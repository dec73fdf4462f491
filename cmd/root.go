package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobswap/internal/commute"
	"github.com/spigell/jobswap/internal/compat"
	"github.com/spigell/jobswap/internal/filtering"
	"github.com/spigell/jobswap/internal/recommend"
)

const (
	app = "jobswap"
)

type Config struct {
	DataFile  string            `mapstructure:"data-file"`
	User      string            `mapstructure:"user"`
	AI        *AIConfig         `mapstructure:"ai"`
	Scoring   compat.Config     `mapstructure:"scoring"`
	Commute   commute.Rates     `mapstructure:"commute"`
	Recommend recommend.Options `mapstructure:"recommend"`
	Filters   filtering.Config  `mapstructure:"filters"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rate-limit"`
	Cache        bool          `mapstructure:"cache"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	BaseURL        string `mapstructure:"base-url"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	ChatModel      string `mapstructure:"chat-model"`
	MaxRetries     int    `mapstructure:"max-retries"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	ChatModel      string `mapstructure:"chat-model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "jobswap finds job-location swap partners and helps HR decide on swap requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("data-file", "JOBSWAP_DATA_FILE"); err != nil {
		log.Fatalf("binding JOBSWAP_DATA_FILE environment variable: %v", err)
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobswap.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("user", "u", "", "current employee id")
	rootCmd.PersistentFlags().String("data-file", "", "YAML dataset file (default is the embedded demo dataset)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("data-file", rootCmd.PersistentFlags().Lookup("data-file"))
}

func setDefaults() {
	viper.SetDefault("user", "user-001")

	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.timeout", "15s")
	viper.SetDefault("ai.rate-limit", 5)
	viper.SetDefault("ai.cache", true)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("ai.openai.base-url", "https://api.openai.com/v1")
	viper.SetDefault("ai.openai.embedding-model", "text-embedding-3-small")
	viper.SetDefault("ai.openai.chat-model", "gpt-4o-mini")
	viper.SetDefault("ai.openai.max-retries", 2)
	viper.SetDefault("ai.gemini.embedding-model", "text-embedding-004")
	viper.SetDefault("ai.gemini.chat-model", "gemini-2.5-flash")

	scoring := compat.DefaultConfig()
	viper.SetDefault("scoring.weights.skills", scoring.Weights.Skills)
	viper.SetDefault("scoring.weights.role", scoring.Weights.Role)
	viper.SetDefault("scoring.weights.commute", scoring.Weights.Commute)
	viper.SetDefault("scoring.weights.salary", scoring.Weights.Salary)
	viper.SetDefault("scoring.commute-cap-minutes", scoring.CommuteCapMinutes)
	viper.SetDefault("scoring.legacy-rounding", false)

	rates := commute.DefaultRates()
	viper.SetDefault("commute.working-days", rates.WorkingDays)
	viper.SetDefault("commute.hourly-value", rates.HourlyValue)
	viper.SetDefault("commute.fuel-cost-per-minute", rates.FuelCostPerMinute)
	viper.SetDefault("commute.co2-kg-per-30-minutes", rates.CO2KgPer30Minutes)
	viper.SetDefault("commute.productivity-factor", rates.ProductivityFactor)
	viper.SetDefault("commute.productivity-cap", rates.ProductivityCap)

	viper.SetDefault("recommend.top", 3)
	viper.SetDefault("recommend.concurrency", 4)

	viper.SetDefault("filters.exclude-requested", true)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without a config file the defaults are complete, but an explicit or broken file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}
