// Package config carga la configuración: defaults, YAML opcional, .env y variables ADOPIT_*.
package config

import (
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const EnvPrefix = "ADOPIT_"

type Config struct {
	Env     EnvConfig     `koanf:"env"`
	HTTP    HTTPConfig    `koanf:"http"`
	Storage StorageConfig `koanf:"storage"`
	Auth    AuthConfig    `koanf:"auth"`
	Seed    SeedConfig    `koanf:"seed"`
}

type EnvConfig struct {
	Name      string `koanf:"name"`
	LogLevel  string `koanf:"logLevel"`
	LogFormat string `koanf:"logFormat"`
}

type HTTPConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"readHeaderTimeout"`
	ReadTimeout       time.Duration `koanf:"readTimeout"`
	WriteTimeout      time.Duration `koanf:"writeTimeout"`
	IdleTimeout       time.Duration `koanf:"idleTimeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdownTimeout"`
}

// Drivers de almacenamiento.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type StorageConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Redis    RedisConfig    `koanf:"redis"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type PostgresConfig struct {
	DSN string `koanf:"dsn"`
}

type RedisConfig struct {
	Addr      string `koanf:"addr"`
	DB        int    `koanf:"db"`
	Password  string `koanf:"password"`
	Namespace string `koanf:"namespace"`
}

type AuthConfig struct {
	// Secret vacío = modo dev (X-Debug-User-ID, sin login real).
	Secret     string        `koanf:"secret"`
	Issuer     string        `koanf:"issuer"`
	TTL        time.Duration `koanf:"ttl"`
	LoginRate  float64       `koanf:"loginRate"` // intentos por minuto
	LoginBurst int           `koanf:"loginBurst"`
	BcryptCost int           `koanf:"bcryptCost"`
}

type SeedConfig struct {
	DemoData   bool `koanf:"demoData"`
	AllowReset bool `koanf:"allowReset"`
}

func defaults() map[string]any {
	return map[string]any{
		"env.name":                "dev",
		"env.logLevel":            "info",
		"env.logFormat":           "text",
		"http.addr":               ":8080",
		"http.readHeaderTimeout":  "5s",
		"http.readTimeout":        "15s",
		"http.writeTimeout":       "15s",
		"http.idleTimeout":        "60s",
		"http.shutdownTimeout":    "10s",
		"storage.driver":          DriverSQLite,
		"storage.sqlite.path":     "data/adopit.db",
		"storage.postgres.dsn":    "",
		"storage.redis.addr":      "localhost:6379",
		"storage.redis.db":        0,
		"storage.redis.password":  "",
		"storage.redis.namespace": "adopit:",
		"auth.secret":             "",
		"auth.issuer":             "adopit",
		"auth.ttl":                "24h",
		"auth.loginRate":          10.0,
		"auth.loginBurst":         10,
		"auth.bcryptCost":         10,
		"seed.demoData":           true,
		"seed.allowReset":         false,
	}
}

// Load arma la config. path es un YAML opcional ("" = solo defaults + entorno).
// Un .env en el directorio actual se carga si existe, sin pisar variables ya definidas.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.Wrap(err, "load .env")
		}
	}

	k := koanf.New(".")
	for key, v := range defaults() {
		if err := k.Set(key, v); err != nil {
			return nil, errors.Wrapf(err, "default %s", key)
		}
	}

	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, v string) (string, any) {
			// ADOPIT_STORAGE_SQLITE_PATH -> storage.sqlite.path
			return canonicalizeEnvKey(strings.TrimPrefix(key, EnvPrefix), existing), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: strings.EqualFold,
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if strings.TrimSpace(c.Storage.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn is required for the postgres driver")
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Driver == DriverSQLite && strings.TrimSpace(c.Storage.SQLite.Path) == "" {
		return errors.New("storage.sqlite.path is required for the sqlite driver")
	}
	if c.Auth.TTL <= 0 {
		return errors.New("auth.ttl must be positive")
	}
	if c.Auth.LoginRate <= 0 || c.Auth.LoginBurst <= 0 {
		return errors.New("auth.loginRate and auth.loginBurst must be positive")
	}
	return nil
}

// DevMode: sin secreto JWT no hay verificación de tokens.
func (c *Config) DevMode() bool {
	return strings.TrimSpace(c.Auth.Secret) == ""
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
			continue
		}
		canonical = append(canonical, segment)
		current = nil
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}
		child, _ := value.(map[string]any)
		return key, child, true
	}
	return "", nil, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
