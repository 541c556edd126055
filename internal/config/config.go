package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	SupabaseURL   string
	SupabaseKey   string
	TelegramToken string
	// TelegramUsers связывает ID пользователя Telegram с ID пользователя приложения
	TelegramUsers map[int64]string
	FetchTimeout  time.Duration
	LogLevel      string
	Currency      string
	TopCategories int
}

var ErrMissingSupabase = errors.New("SUPABASE_URL and SUPABASE_KEY are required")

// LoadConfig читает .env (если он есть) и переменные окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("FETCH_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CURRENCY", "USD")
	v.SetDefault("TOP_CATEGORIES", 6)
}

func fromViper(v *viper.Viper) (*Config, error) {
	users, err := parseTelegramUsers(v.GetString("TELEGRAM_USERS"))
	if err != nil {
		return nil, err
	}

	timeout := v.GetDuration("FETCH_TIMEOUT")
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT %q", v.GetString("FETCH_TIMEOUT"))
	}

	cfg := &Config{
		SupabaseURL:   v.GetString("SUPABASE_URL"),
		SupabaseKey:   v.GetString("SUPABASE_KEY"),
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		TelegramUsers: users,
		FetchTimeout:  timeout,
		LogLevel:      v.GetString("LOG_LEVEL"),
		Currency:      v.GetString("CURRENCY"),
		TopCategories: v.GetInt("TOP_CATEGORIES"),
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, ErrMissingSupabase
	}
	return cfg, nil
}

// parseTelegramUsers разбирает строку вида "123=uuid-1,456=uuid-2"
func parseTelegramUsers(raw string) (map[int64]string, error) {
	users := make(map[int64]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		tgID, userID, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(userID) == "" {
			return nil, fmt.Errorf("invalid TELEGRAM_USERS entry %q", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(tgID), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram id in %q: %w", pair, err)
		}
		users[id] = strings.TrimSpace(userID)
	}
	return users, nil
}
