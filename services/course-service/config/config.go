package config

import (
	"errors"
	"time"

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

	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	CourseCacheTTL time.Duration `mapstructure:"COURSE_CACHE_TTL"`

	UserSvcBaseURL      string        `mapstructure:"USER_SVC_BASE_URL"`
	ServiceKey          string        `mapstructure:"SERVICE_KEY"`
	ServiceAuthMode     string        `mapstructure:"SERVICE_AUTH_MODE"`
	ServiceName         string        `mapstructure:"SERVICE_NAME"`
	UserSvcTimeout      time.Duration `mapstructure:"USER_SVC_TIMEOUT"`
	UserSvcMaxRetries   int           `mapstructure:"USER_SVC_MAX_RETRIES"`
	UserSvcRetryBackoff time.Duration `mapstructure:"USER_SVC_RETRY_BACKOFF"`

	// Re-insert the removed entry verbatim when the remote unenroll fails,
	// instead of appending a reset entry.
	UnenrollRestoreSnapshot bool `mapstructure:"UNENROLL_RESTORE_SNAPSHOT"`

	EnrollRateLimit  int           `mapstructure:"ENROLL_RATE_LIMIT"`
	EnrollRateWindow time.Duration `mapstructure:"ENROLL_RATE_WINDOW"`

	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	LogMode        string   `mapstructure:"LOG_MODE"`
	SeedCourses    bool     `mapstructure:"SEED_COURSES"`
	LessonSource   string   `mapstructure:"LESSON_SOURCE_API"`
}

var keys = []string{
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"HTTP_PORT", "GRPC_PORT",
	"REDIS_ADDR", "COURSE_CACHE_TTL",
	"USER_SVC_BASE_URL", "SERVICE_KEY", "SERVICE_AUTH_MODE", "SERVICE_NAME",
	"USER_SVC_TIMEOUT", "USER_SVC_MAX_RETRIES", "USER_SVC_RETRY_BACKOFF",
	"UNENROLL_RESTORE_SNAPSHOT",
	"ENROLL_RATE_LIMIT", "ENROLL_RATE_WINDOW",
	"ALLOWED_ORIGINS", "LOG_MODE", "SEED_COURSES", "LESSON_SOURCE_API",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":50052")
	v.SetDefault("COURSE_CACHE_TTL", time.Hour)
	v.SetDefault("USER_SVC_BASE_URL", "http://user-service:8081")
	v.SetDefault("SERVICE_AUTH_MODE", "static")
	v.SetDefault("SERVICE_NAME", "course-service")
	v.SetDefault("USER_SVC_TIMEOUT", 5*time.Second)
	v.SetDefault("USER_SVC_MAX_RETRIES", 1)
	v.SetDefault("USER_SVC_RETRY_BACKOFF", 200*time.Millisecond)
	v.SetDefault("UNENROLL_RESTORE_SNAPSHOT", false)
	v.SetDefault("ENROLL_RATE_LIMIT", 30)
	v.SetDefault("ENROLL_RATE_WINDOW", time.Minute)
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("SEED_COURSES", true)
	v.SetDefault("LESSON_SOURCE_API", "https://cloud.mail.ru/api/v2/folder")

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
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
