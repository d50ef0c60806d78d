package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeJWT    AuthMode = "jwt"
	AuthModeRemote AuthMode = "remote"
	AuthModeDev    AuthMode = "dev" // sin verifier: X-Debug-User-ID / X-Debug-Admin
)

type Config struct {
	Port   string
	AppEnv string
	App    string

	LogLevel  string
	LogFormat string

	// DBDSN vacío => store in-memory.
	DBDSN      string
	DBMaxConns int32
	DBMigrate  bool

	AuthMode        AuthMode
	JWTSecret       string
	JWTTTL          time.Duration
	AuthRemoteURL   string
	AuthRemoteKey   string
	AuthRemoteTimeo time.Duration

	CORSAllowedOrigins []string

	// StrictTransitions limita ChangeState a las aristas del flujo.
	// false mantiene el comportamiento permisivo histórico.
	StrictTransitions bool
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_name", "newlife-adoptions")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("db_migrate", true)
	v.SetDefault("auth_mode", string(AuthModeJWT))
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", "168h")
	v.SetDefault("auth_remote_url", "")
	v.SetDefault("auth_remote_api_key", "")
	v.SetDefault("auth_remote_timeout", "5s")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("adoptions_strict_transitions", true)
}

// Load lee .env (si existe), config.yaml en configPath (si existe) y env vars.
// Las env vars ganan sobre el archivo.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load() // .env es opcional

	v := viper.New()
	defaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if strings.TrimSpace(configPath) != "" {
		v.AddConfigPath(configPath)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:              strings.TrimSpace(v.GetString("port")),
		AppEnv:            strings.TrimSpace(v.GetString("app_env")),
		App:               strings.TrimSpace(v.GetString("app_name")),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		DBDSN:             strings.TrimSpace(v.GetString("db_dsn")),
		DBMaxConns:        v.GetInt32("db_max_conns"),
		DBMigrate:         v.GetBool("db_migrate"),
		AuthMode:          AuthMode(strings.ToLower(strings.TrimSpace(v.GetString("auth_mode")))),
		JWTSecret:         v.GetString("jwt_secret"),
		JWTTTL:            v.GetDuration("jwt_ttl"),
		AuthRemoteURL:     strings.TrimSpace(v.GetString("auth_remote_url")),
		AuthRemoteKey:     strings.TrimSpace(v.GetString("auth_remote_api_key")),
		AuthRemoteTimeo:   v.GetDuration("auth_remote_timeout"),
		StrictTransitions: v.GetBool("adoptions_strict_transitions"),
	}
	cfg.CORSAllowedOrigins = splitCSV(v.GetString("cors_allowed_origins"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port required")
	}
	switch c.AuthMode {
	case AuthModeJWT:
		if strings.TrimSpace(c.JWTSecret) == "" {
			return errors.New("config: JWT_SECRET required when AUTH_MODE=jwt")
		}
	case AuthModeRemote:
		if c.AuthRemoteURL == "" {
			return errors.New("config: AUTH_REMOTE_URL required when AUTH_MODE=remote")
		}
	case AuthModeDev:
		if !c.IsDevelopment() {
			return errors.New("config: AUTH_MODE=dev only allowed with APP_ENV=development")
		}
	default:
		return fmt.Errorf("config: unknown AUTH_MODE %q", c.AuthMode)
	}
	if c.DBMaxConns <= 0 {
		return errors.New("config: DB_MAX_CONNS must be positive")
	}
	return nil
}

func splitCSV(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
