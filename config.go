package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port        int               `json:"port"`
	Env         string            `json:"env"`
	LogLevel    string            `json:"log_level"`
	Pepper      string            `json:"pepper"`
	JWT         JWTConfig         `json:"jwt"`
	Database    PostgresConfig    `json:"database"`
	ObjectStore ObjectStoreConfig `json:"object_store"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type JWTConfig struct {
	AccessSecret  string `json:"access_secret"`
	RefreshSecret string `json:"refresh_secret"`
	AccessTTLMin  int    `json:"access_ttl_minutes"`
	RefreshTTLDay int    `json:"refresh_ttl_days"`
}

func (jc JWTConfig) AccessTTL() time.Duration {
	return time.Duration(jc.AccessTTLMin) * time.Minute
}

func (jc JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(jc.RefreshTTLDay) * 24 * time.Hour
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

type ObjectStoreConfig struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	PublicURL string `json:"public_url"`
	UseSSL    bool   `json:"use_ssl"`
}

func DefaultConfig() Config {
	return Config{
		Port:     1111,
		Env:      "dev",
		LogLevel: "info",
		Pepper:   "secret-random-string",
		JWT: JWTConfig{
			AccessSecret:  "secret-access-key",
			RefreshSecret: "secret-refresh-key",
			AccessTTLMin:  15,
			RefreshTTLDay: 10,
		},
		Database: DefaultPostgresConfig(),
		ObjectStore: ObjectStoreConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "vidtube",
			PublicURL: "http://localhost:9000",
			UseSSL:    false,
		},
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "vidtube",
	}
}

// LoadConfig reads .config.json if present. In dev a missing file just means
// the default setup; in production the file is required.
func LoadConfig(prod bool) Config {
	f, err := os.Open(".config.json")
	if err != nil {
		if prod {
			panic("running with -prod requires a .config.json file")
		}
		return DefaultConfig()
	}
	defer f.Close()
	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		panic(err)
	}
	fmt.Println("Successfully loaded .config.json")
	return c
}
