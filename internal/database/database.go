package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Config struct {
	Driver string // postgres или sqlite

	// postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// sqlite
	Path string
}

func LoadConfig() Config {
	// Для локальной разработки - значения по умолчанию
	return Config{
		Driver:   getEnv("DB_DRIVER", "sqlite"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "1234"),
		DBName:   getEnv("DB_NAME", "labtrack"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
		Path:     getEnv("DB_PATH", "sessions.db"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c Config) dsn() string {
	if c.Driver == "sqlite" {
		// WAL и busy_timeout, чтобы одиночный писатель не спотыкался о читателей
		return c.Path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Open подключается к БД и возвращает явный хэндл.
// Никаких глобальных переменных: хэндл передаётся дальше по конструкторам.
func Open(config Config) (*sql.DB, error) {
	db, err := sql.Open(config.Driver, config.dsn())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка ping БД: %w", err)
	}

	if config.Driver == "sqlite" {
		// встроенная БД — один писатель
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	log.Println("База данных подключена успешно")
	return db, nil
}
