package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	HTTPPort string `mapstructure:"HTTP_PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`

	ServiceKey      string `mapstructure:"SERVICE_KEY"`
	ServiceAuthMode string `mapstructure:"SERVICE_AUTH_MODE"`

	LogMode string `mapstructure:"LOG_MODE"`
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.BindEnv("DB_HOST")
	v.BindEnv("DB_PORT")
	v.BindEnv("DB_USER")
	v.BindEnv("DB_PASSWORD")
	v.BindEnv("DB_NAME")
	v.BindEnv("HTTP_PORT")
	v.BindEnv("GRPC_PORT")
	v.BindEnv("SERVICE_KEY")
	v.BindEnv("SERVICE_AUTH_MODE")
	v.BindEnv("LOG_MODE")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("HTTP_PORT", ":8081")
	v.SetDefault("GRPC_PORT", ":50051")
	v.SetDefault("SERVICE_AUTH_MODE", "static")
	v.SetDefault("LOG_MODE", "dev")

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}
	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if config.ServiceKey == "" {
		err = errors.New("SERVICE_KEY is required")
	}
	return
}
