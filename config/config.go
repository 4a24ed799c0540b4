package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config configuração global da aplicação
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Import   ImportConfig   `mapstructure:"import"`
	Feature  FeatureConfig  `mapstructure:"feature"`
}

// ServerConfig servidor HTTP
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig origens liberadas
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Drivers de banco suportados.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig banco relacional (remoto ou embarcado)
type DatabaseConfig struct {
	Driver           string        `mapstructure:"driver"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	SSLMode          string        `mapstructure:"sslmode"`
	Timezone         string        `mapstructure:"timezone"`
	SQLitePath       string        `mapstructure:"sqlite_path"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  int           `mapstructure:"conn_max_lifetime"` // minutos
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// DSN monta a string de conexão do PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig cache (blacklist de token e rate limit)
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT e senhas
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTokenTTL    time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL   time.Duration `mapstructure:"refresh_token_ttl"`
	DefaultPassword   string        `mapstructure:"default_password"`
	LoginRateLimit    int           `mapstructure:"login_rate_limit"`
	LoginRateWindow   time.Duration `mapstructure:"login_rate_window"`
	SeedAdminUsername string        `mapstructure:"seed_admin_username"`
}

// LogConfig nível e formato do zap
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Drivers de armazenamento de fotos.
const (
	StorageNone  = "none"
	StorageLocal = "local"
	StorageS3    = "s3"
)

// StorageConfig fotos de conclusão
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	LocalDir      string `mapstructure:"local_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
}

// ImportConfig importação em lote
type ImportConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
	MaxRows   int `mapstructure:"max_rows"`
}

// FeatureConfig chaves de comportamento
type FeatureConfig struct {
	// StrictTransitions recusa iniciar serviço concluído e finalizar serviço fora de execução.
	StrictTransitions bool `mapstructure:"strict_transitions"`
	// AuditDenials registra na auditoria tentativas negadas por permissão.
	AuditDenials bool `mapstructure:"audit_denials"`
}

// Load carrega configuração de arquivo e variáveis de ambiente
// Prioridade: variável de ambiente > arquivo > default
func Load(path string) (*Config, error) {
	// .env é opcional
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "acompanhamento_obras")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Sao_Paulo")
	v.SetDefault("db.sqlite_path", "obras.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.statement_timeout", "10s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "8h")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.default_password", "123456")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")
	v.SetDefault("auth.seed_admin_username", "admin")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("storage.driver", StorageNone)
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.public_base_url", "http://localhost:8080/uploads")
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("import.chunk_size", 500)
	v.SetDefault("import.max_rows", 20000)

	v.SetDefault("feature.strict_transitions", true)
	v.SetDefault("feature.audit_denials", true)

	// ── arquivo ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── ambiente ──
	v.SetEnvPrefix("OBRAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("falha ao ler arquivo de configuração: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao interpretar configuração: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate confere os itens obrigatórios
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("configuração inválida: auth.jwt_secret deve ter pelo menos 16 caracteres")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("configuração inválida: server.port deve estar entre 1 e 65535")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("configuração inválida: db.driver desconhecido %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case StorageNone, StorageLocal:
	case StorageS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("configuração inválida: storage.bucket obrigatório para s3")
		}
	default:
		return fmt.Errorf("configuração inválida: storage.driver desconhecido %q", c.Storage.Driver)
	}
	if c.Import.ChunkSize <= 0 {
		c.Import.ChunkSize = 500
	}
	return nil
}
