// internal/config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	App struct {
		DefaultGroupName string `mapstructure:"default_group_name"` // 既定の単語グループ名
		GuestUserID      string `mapstructure:"guest_user_id"`      // ゲストモード用の管理者ユーザーID (UUID)
		GuestLevel       string `mapstructure:"guest_level"`        // ゲストモードで出題するCEFRレベル
		FrontendURL      string `mapstructure:"frontend_url"`       // 認証メールのリンク先
	} `mapstructure:"app"`
	Auth struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"auth"`
	JWT struct {
		SecretKey   string `mapstructure:"secret_key"`
		ExpiryHours int    `mapstructure:"expiry_hours"`
	} `mapstructure:"jwt"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	CORS   struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	Mailer struct {
		Type string `mapstructure:"type"` // "log" or "ses"
	} `mapstructure:"mailer"`
	SES SESConfig `mapstructure:"ses"`
}

// GeminiConfig は生成AI (Gemini) API クライアントの設定です
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" or "iam_role"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数からの上書き (例: APP_GEMINI_API_KEY)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("database.url", "DATABASE_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	err := viper.Unmarshal(&Cfg)
	if err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		log.Println("Server port not set, using default ':8080'")
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.App.DefaultGroupName == "" {
		Cfg.App.DefaultGroupName = DefaultGroupName
	}
	if Cfg.App.GuestLevel == "" {
		Cfg.App.GuestLevel = DefaultGuestLevel
	}
	if Cfg.JWT.ExpiryHours <= 0 {
		Cfg.JWT.ExpiryHours = DefaultJWTExpiryHours
	}
	if Cfg.Gemini.Model == "" {
		Cfg.Gemini.Model = DefaultGeminiModel
	}
	if Cfg.Gemini.BaseURL == "" {
		Cfg.Gemini.BaseURL = DefaultGeminiBaseURL
	}
	if Cfg.Mailer.Type == "" {
		Cfg.Mailer.Type = "log"
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if Cfg.Gemini.APIKey == "" {
		log.Println("Warning: Gemini API key is not set. /translate and /grammar will fail.")
	}

	// Auth.Enabled のデフォルト値を設定 (未設定なら true = 有効 にする)
	if !viper.IsSet("auth.enabled") {
		log.Println("Auth enabled flag not set, defaulting to true (enabled)")
		Cfg.Auth.Enabled = true
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Default Group Name: %s", Cfg.App.DefaultGroupName)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}
