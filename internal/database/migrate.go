package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

func newMigrate(db *sql.DB, driver string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения миграций: %w", err)
	}

	var instance migratedb.Driver
	switch driver {
	case "postgres":
		instance, err = migratepg.WithInstance(db, &migratepg.Config{})
	case "sqlite":
		instance, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("неизвестный драйвер БД: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации миграций: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, driver, instance)
}

// Migrate применяет схему. Повторный запуск ничего не меняет.
func Migrate(db *sql.DB, driver string) error {
	m, err := newMigrate(db, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка миграции БД: %w", err)
	}

	log.Println("Инициализация БД завершена")
	return nil
}

// Reset полностью очищает схему и накатывает её заново.
// Вызывается только явно, флагом --reset при старте.
func Reset(db *sql.DB, driver string) error {
	m, err := newMigrate(db, driver)
	if err != nil {
		return err
	}

	if err := m.Drop(); err != nil {
		return fmt.Errorf("ошибка сброса БД: %w", err)
	}

	log.Println("БД сброшена")
	return Migrate(db, driver)
}
