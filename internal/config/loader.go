package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jmallet/catql/internal/db"
)

// Config holds everything the server needs at startup.
type Config struct {
	Database       db.Config
	ServerAddr     string
	MigrationsPath string
	ExportDir      string
	PageSize       int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:       db.DefaultConfig(),
		ServerAddr:     ":8080",
		MigrationsPath: "migrations",
		ExportDir:      "exports",
		PageSize:       100,
	}
}

// Load reads config.yaml from configPath, falling back to defaults, with
// environment overrides like CATQL_DATABASE_HOST or CATQL_SERVER_ADDR.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("CATQL")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("server.page_size")
	v.BindEnv("migrations.path")
	v.BindEnv("export.dir")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.ServerAddr = v.GetString("server.addr")
	}
	if v.IsSet("server.page_size") {
		cfg.PageSize = v.GetInt("server.page_size")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}
	if v.IsSet("export.dir") {
		cfg.ExportDir = v.GetString("export.dir")
	}

	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}

	return cfg, nil
}
