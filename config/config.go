// Ininicializing common application configuration
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/constructai/demobooking/internal/slots"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Email      EmailConfig      `mapstructure:"email"`
	Meeting    MeetingConfig    `mapstructure:"meeting"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type ServerConfig struct {
	AppVersion   string `json:"appVersion"`
	Host         string `json:"host" validate:"required"`
	Port         string `json:"port" validate:"required"`
	Timeout      time.Duration
	Idle_timeout time.Duration
	Env          string `json:"environment"`
	Mode         string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"required"`
	Password string `json:"password"`
	DB       int    `json:"db"`

	// Настройки пула соединений
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// SchedulingConfig задаёт сетку слотов демо. Рабочие часы считаются
// по настенным часам зоны Timezone.
type SchedulingConfig struct {
	Timezone           string   `mapstructure:"timezone"`
	DurationMinutes    int      `mapstructure:"duration_minutes"`
	BusinessHoursStart int      `mapstructure:"business_hours_start"`
	BusinessHoursEnd   int      `mapstructure:"business_hours_end"`
	DaysAhead          int      `mapstructure:"days_ahead"`
	Weekdays           []string `mapstructure:"weekdays"`
}

type EmailConfig struct {
	From     string `mapstructure:"from"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Enabled  bool   `mapstructure:"enabled"`
}

type MeetingConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type WorkerConfig struct {
	ReconcileInterval int `mapstructure:"reconcile_interval"` // в минутах
	ReminderInterval  int `mapstructure:"reminder_interval"`  // в минутах
	ReminderLeadHours int `mapstructure:"reminder_lead_hours"`
	BatchSize         int `mapstructure:"batch_size"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// SlotConfig переводит секцию scheduling в конфигурацию сетки слотов
// и валидирует её. Вызывается один раз при старте: кривой конфиг
// роняет процесс сразу, а не на первом запросе.
func (c *SchedulingConfig) SlotConfig() (slots.Config, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return slots.Config{}, fmt.Errorf("invalid scheduling timezone %q: %w", c.Timezone, err)
	}

	weekdays := make(map[time.Weekday]bool, len(c.Weekdays))
	for _, name := range c.Weekdays {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return slots.Config{}, fmt.Errorf("invalid weekday %q in scheduling config", name)
		}
		weekdays[wd] = true
	}

	cfg := slots.Config{
		DurationMinutes:    c.DurationMinutes,
		BusinessHoursStart: c.BusinessHoursStart,
		BusinessHoursEnd:   c.BusinessHoursEnd,
		DaysAhead:          c.DaysAhead,
		Weekdays:           weekdays,
		Location:           loc,
	}
	if err := cfg.Validate(); err != nil {
		return slots.Config{}, fmt.Errorf("invalid scheduling config: %w", err)
	}
	return cfg, nil
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
