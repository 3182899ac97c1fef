// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath     = pflag.String("config", ".", "Directory containing config.toml")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
	validSameSite  = []string{"lax", "strict", "none"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors_origin", "host_cors_origin")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("jwt.access_secret", "jwt_access_secret")
	v.BindEnv("jwt.refresh_secret", "jwt_refresh_secret")
	v.BindEnv("jwt.access_expiry", "jwt_access_expiry")
	v.BindEnv("jwt.refresh_expiry", "jwt_refresh_expiry")

	v.BindEnv("cookies.same_site", "cookies_same_site")

	v.BindEnv("upload.max_avatar_size", "upload_max_avatar_size")

	v.BindEnv("aws.access_key_id", "aws_access_key_id")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.region", "aws_region")
	v.BindEnv("aws.bucket", "aws_bucket")
	v.BindEnv("aws.public_url", "aws_public_url")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors_origin", "http://localhost:5173")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "720h")

	v.SetDefault("cookies.same_site", "lax")

	// In megabytes, converted to bytes at the end
	v.SetDefault("upload.max_avatar_size", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetString("jwt.access_secret") == "" {
		return errors.New("jwt access secret can't be empty")
	}

	if v.GetString("jwt.refresh_secret") == "" {
		return errors.New("jwt refresh secret can't be empty")
	}

	if v.GetString("jwt.access_secret") == v.GetString("jwt.refresh_secret") {
		return errors.New("access and refresh secrets must differ")
	}

	if _, err := time.ParseDuration(v.GetString("jwt.access_expiry")); err != nil {
		return fmt.Errorf("invalid jwt.access_expiry, %w", err)
	}

	if _, err := time.ParseDuration(v.GetString("jwt.refresh_expiry")); err != nil {
		return fmt.Errorf("invalid jwt.refresh_expiry, %w", err)
	}

	if !slices.Contains(validSameSite, v.GetString("cookies.same_site")) {
		return errors.New("invalid cookies.same_site provided")
	}

	if v.GetInt("upload.max_avatar_size") <= 0 {
		return errors.New("upload.max_avatar_size must be bigger than 0")
	}

	if v.GetString("aws.access_key_id") == "" {
		return errors.New("aws access key id can't be empty")
	}
	if v.GetString("aws.secret_access_key") == "" {
		return errors.New("aws secret access key can't be empty")
	}
	if v.GetString("aws.region") == "" {
		return errors.New("aws region can't be empty")
	}
	if v.GetString("aws.bucket") == "" {
		return errors.New("aws bucket can't be empty")
	}
	if v.GetString("aws.public_url") == "" {
		return errors.New("aws public url can't be empty")
	}

	v.Set("upload.max_avatar_size", v.GetInt64("upload.max_avatar_size")<<20)
	return nil
}
