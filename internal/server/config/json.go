package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/calcledger/internal/flagx"
	"github.com/dmitrijs2005/calcledger/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for lifetime fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                 string          `json:"endpoint_addr"`
	DatabaseDSN                  string          `json:"database_dsn"`
	RedisAddr                    string          `json:"redis_addr"`
	RedisPassword                string          `json:"redis_password"`
	RedisDB                      *int            `json:"redis_db"`
	AccessSecretKey              string          `json:"access_secret_key"`
	RefreshSecretKey             string          `json:"refresh_secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   *int            `json:"bcrypt_cost"`
	AllowedOrigins               []string        `json:"allowed_origins"`
	TemplatesGlob                string          `json:"templates_glob"`
	StaticDir                    string          `json:"static_dir"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags.
// If it is not set, no JSON file is loaded. Empty or absent JSON fields
// leave the current Config values untouched. If the file cannot be read or
// contains invalid JSON, the function panics: a broken config file is a
// startup-class failure.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.RedisPassword != "" {
		config.RedisPassword = c.RedisPassword
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.AccessSecretKey != "" {
		config.AccessSecretKey = c.AccessSecretKey
	}
	if c.RefreshSecretKey != "" {
		config.RefreshSecretKey = c.RefreshSecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.TemplatesGlob != "" {
		config.TemplatesGlob = c.TemplatesGlob
	}
	if c.StaticDir != "" {
		config.StaticDir = c.StaticDir
	}
}
