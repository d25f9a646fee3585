package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds all application configuration. Values are resolved in order of
// precedence: environment variables, then the CONFIG_FILE yaml file, then
// defaults. Fields tagged required must be set by one of the first two.
type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"3"`
	JWTSecret                 string        `koanf:"jwt_secret" required:"true"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"4280"`
	StatsWindowDays           int           `koanf:"stats_window_days" default:"30"`
}

const defaultConfigFile = "/config/shelfmark.yaml"

// New loads configuration from the config file and the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		if !os.IsNotExist(errors.Cause(err)) && !strings.Contains(err.Error(), "no such file") {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	} else if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := checkRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config suitable for package tests: in-memory database,
// loopback host, fixed secret.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-secret-key"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

// applyEnvOverrides sets struct fields from environment variables named after
// the field's snake_case form, upper-cased (DatabaseFilePath ->
// DATABASE_FILE_PATH). Env vars always win over file values.
func applyEnvOverrides(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		envName := strings.ToUpper(toSnakeCase(field.Name))
		raw, ok := os.LookupEnv(envName)
		if !ok {
			continue
		}

		fv := v.Field(i)
		switch field.Type {
		case reflect.TypeOf(time.Duration(0)):
			d, err := time.ParseDuration(raw)
			if err != nil {
				return errors.Wrapf(err, "invalid duration for %s", envName)
			}
			fv.SetInt(int64(d))
		default:
			switch field.Type.Kind() {
			case reflect.String:
				fv.SetString(raw)
			case reflect.Int:
				n, err := strconv.Atoi(raw)
				if err != nil {
					return errors.Wrapf(err, "invalid integer for %s", envName)
				}
				fv.SetInt(int64(n))
			case reflect.Bool:
				b, err := strconv.ParseBool(raw)
				if err != nil {
					return errors.Wrapf(err, "invalid boolean for %s", envName)
				}
				fv.SetBool(b)
			default:
				return errors.Errorf("unsupported config field type for %s", field.Name)
			}
		}
	}

	return nil
}

// checkRequired verifies all fields tagged required are non-zero.
func checkRequired(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("required") != "true" {
			continue
		}
		if v.Field(i).IsZero() {
			snake := toSnakeCase(field.Name)
			return errors.Errorf(
				"missing required config: set the %s environment variable or %s in the config file",
				strings.ToUpper(snake), snake,
			)
		}
	}

	return nil
}

// toSnakeCase converts CamelCase field names to snake_case. Runs of capitals
// (JWTSecret) are treated as one word.
func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
