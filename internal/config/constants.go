// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "EngVoca"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultGroupName      = "General"
	DefaultGuestLevel     = "B2"
	DefaultJWTExpiryHours = 72
	DefaultGeminiModel    = "gemini-flash-latest"
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
)
