package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Schedule ScheduleConfig
}

type AppConfig struct {
	Port         string
	Env          string
	LogLevel     string
	CORSOrigin   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN is the key/value form understood by gorm's postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

// URL is the form golang-migrate expects.
func (c DBConfig) URL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type ScheduleConfig struct {
	DayStart       string
	DayEnd         string
	SlotMinutes    int
	MaxSuggestions int
	MergeFreeCells bool
}

// Grid turns the configured working day into a slot grid.
func (c ScheduleConfig) Grid() (timeslot.Grid, error) {
	start, err := timeslot.Parse(c.DayStart)
	if err != nil {
		return timeslot.Grid{}, fmt.Errorf("SCHEDULE_DAY_START: %w", err)
	}
	end, err := timeslot.Parse(c.DayEnd)
	if err != nil {
		return timeslot.Grid{}, fmt.Errorf("SCHEDULE_DAY_END: %w", err)
	}

	grid := timeslot.Grid{DayStart: start, DayEnd: end, Step: c.SlotMinutes}
	if err := grid.Validate(); err != nil {
		return timeslot.Grid{}, err
	}
	return grid, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_READ_TIMEOUT", "15s")
	v.SetDefault("APP_WRITE_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_CORS_ORIGIN", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "dental_clinic")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")

	v.SetDefault("SCHEDULE_DAY_START", "09:00")
	v.SetDefault("SCHEDULE_DAY_END", "18:00")
	v.SetDefault("SCHEDULE_SLOT_MINUTES", 30)
	v.SetDefault("SCHEDULE_MAX_SUGGESTIONS", 5)
	v.SetDefault("SCHEDULE_MERGE_FREE_CELLS", false)
}

// LoadConfig reads the given env file when it exists, then the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:         v.GetString("APP_PORT"),
			Env:          v.GetString("APP_ENV"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			CORSOrigin:   v.GetString("APP_CORS_ORIGIN"),
			ReadTimeout:  v.GetDuration("APP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("APP_WRITE_TIMEOUT"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			TimeZone: v.GetString("DB_TIMEZONE"),

			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Schedule: ScheduleConfig{
			DayStart:       v.GetString("SCHEDULE_DAY_START"),
			DayEnd:         v.GetString("SCHEDULE_DAY_END"),
			SlotMinutes:    v.GetInt("SCHEDULE_SLOT_MINUTES"),
			MaxSuggestions: v.GetInt("SCHEDULE_MAX_SUGGESTIONS"),
			MergeFreeCells: v.GetBool("SCHEDULE_MERGE_FREE_CELLS"),
		},
	}

	if _, err := config.Schedule.Grid(); err != nil {
		return nil, fmt.Errorf("invalid schedule config: %w", err)
	}

	return config, nil
}
