package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App             App             `mapstructure:",squash"`
	Server          Server          `mapstructure:",squash"`
	Database        Database        `mapstructure:",squash"`
	Meta            Meta            `mapstructure:",squash"`
	Google          Google          `mapstructure:",squash"`
	Gemini          Gemini          `mapstructure:",squash"`
	HTTPClient      HTTPClient      `mapstructure:",squash"`
	MetaBalanceSync MetaBalanceSync `mapstructure:",squash"`
	DailySettlement DailySettlement `mapstructure:",squash"`
	SecretKey       string          `mapstructure:"secret_key"`
	Location        *time.Location  `mapstructure:"-"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

type Meta struct {
	BaseURL     string `mapstructure:"meta_base_url"`
	URL         string `mapstructure:"-"`
	Version     string `mapstructure:"meta_version"`
	AccessToken string `mapstructure:"meta_access_token"`
	AppID       string `mapstructure:"meta_app_id"`
	AppSecret   string `mapstructure:"meta_app_secret"`
}

// HasAppCredentials indica se é possível trocar tokens por tokens de longa duração
func (m Meta) HasAppCredentials() bool {
	return m.AppID != "" && m.AppSecret != ""
}

type Google struct {
	ClientID     string `mapstructure:"google_client_id"`
	ClientSecret string `mapstructure:"google_client_secret"`
	RefreshToken string `mapstructure:"google_refresh_token"`
	CalendarID   string `mapstructure:"google_calendar_id"`
}

// IsConfigured indica se há credenciais suficientes para criar eventos no Calendar
func (g Google) IsConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RefreshToken != ""
}

type Gemini struct {
	APIKey  string `mapstructure:"gemini_api_key"`
	Model   string `mapstructure:"gemini_model"`
	BaseURL string `mapstructure:"gemini_base_url"`
}

type HTTPClient struct {
	RetryMax int           `mapstructure:"http_retry_max"`
	Timeout  time.Duration `mapstructure:"http_timeout"`
}

type App struct {
	LogLevel        string `mapstructure:"log_level"`
	Timezone        string `mapstructure:"app_timezone"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

type MetaBalanceSync struct {
	Interval          time.Duration `mapstructure:"meta_balance_sync_interval"`
	MaxConcurrentJobs int           `mapstructure:"meta_balance_sync_max_concurrent_jobs"`
}

type DailySettlement struct {
	CronSchedule string `mapstructure:"daily_settlement_cron"`
	Enabled      bool   `mapstructure:"daily_settlement_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001,https://traffic-budget-web.vercel.app")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/traffic_budget?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v19.0")
	viper.SetDefault("META_APP_ID", "")
	viper.SetDefault("META_APP_SECRET", "")
	viper.SetDefault("META_ACCESS_TOKEN", "")

	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REFRESH_TOKEN", "")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")

	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")

	viper.SetDefault("HTTP_RETRY_MAX", 2)
	viper.SetDefault("HTTP_TIMEOUT", 30*time.Second)

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("META_BALANCE_SYNC_INTERVAL", 5*time.Minute)
	viper.SetDefault("META_BALANCE_SYNC_MAX_CONCURRENT_JOBS", 3)

	viper.SetDefault("DAILY_SETTLEMENT_CRON", "1 0 * * *") // Todos os dias às 00:01
	viper.SetDefault("DAILY_SETTLEMENT_ENABLED", true)

	viper.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("DEFAULT_CURRENCY", "BRL")
	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(config.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido %q: %w", config.App.Timezone, err)
	}
	config.Location = location

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
