package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finbot/internal/config"
	"finbot/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	driver string
	dsn    string
}

// NewManager opens the configured database.
func NewManager(cfg config.Config) (*Manager, error) {
	driver, dsn := DSN(cfg)
	if driver == config.DriverSQLite {
		if err := ensureDir(cfg.DBPath); err != nil {
			return nil, err
		}
	}

	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Manager{db: db, driver: driver, dsn: dsn}, nil
}

// DSN returns the driver name and connection string for cfg.
func DSN(cfg config.Config) (string, string) {
	if cfg.DBDriver == config.DriverPostgres {
		return config.DriverPostgres, fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	}
	dsn := cfg.DBPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}
	return config.DriverSQLite, dsn
}

// Open connects gorm to the given database. Timestamps are recorded in UTC.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if driver == config.DriverSQLite {
		// SQLite serializes writers anyway; one writer connection avoids SQLITE_BUSY churn.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// RunMigrations applies pending embedded SQL migrations.
func (m *Manager) RunMigrations() error {
	logger.Get().Info("Running database migrations...")
	if err := Migrate(m.driver, m.dsn); err != nil {
		return err
	}
	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// Migrate applies all pending migrations on a dedicated connection.
func Migrate(driver, dsn string) error {
	mig, err := NewMigrator(driver, dsn)
	if err != nil {
		return err
	}
	defer CloseMigrator(mig)

	if driver == config.DriverSQLite {
		if err := adoptExistingUsers(mig, dsn); err != nil {
			return err
		}
	}

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// registrationVersion is the migration that adds is_active and registration_date.
const registrationVersion = 2

// adoptExistingUsers puts an unversioned database written by the earlier bot
// under migration control. Its users table may already have the registration
// columns, or lack created_at, so migration 2 cannot run on it as is: the
// missing columns are added here and the version is forced past it.
func adoptExistingUsers(mig *migrate.Migrate, dsn string) error {
	if _, _, err := mig.Version(); !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open database for inspection: %w", err)
	}
	defer conn.Close()

	cols, err := tableColumns(conn, "users")
	if err != nil {
		return err
	}
	if len(cols) == 0 || (!cols["is_active"] && !cols["registration_date"] && cols["created_at"]) {
		return nil
	}

	logger.Get().Info("Adopting existing users table")
	if err := mig.Steps(1); err != nil {
		return fmt.Errorf("apply base schema: %w", err)
	}

	stmts := []string{}
	if !cols["is_active"] {
		stmts = append(stmts, `ALTER TABLE users ADD COLUMN is_active BOOLEAN DEFAULT 1`)
	}
	if !cols["registration_date"] {
		stmts = append(stmts, `ALTER TABLE users ADD COLUMN registration_date TIMESTAMP`)
	}
	backfill := "CURRENT_TIMESTAMP"
	if cols["created_at"] {
		backfill = "COALESCE(created_at, CURRENT_TIMESTAMP)"
	}
	stmts = append(stmts,
		`UPDATE users SET is_active = 1 WHERE is_active IS NULL`,
		`UPDATE users SET registration_date = `+backfill+` WHERE registration_date IS NULL`,
	)
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("adopt users table: %w", err)
		}
	}

	if err := mig.Force(registrationVersion); err != nil {
		return fmt.Errorf("force migration version: %w", err)
	}
	return nil
}

// tableColumns returns the column names of table, empty when it does not exist.
func tableColumns(conn *sql.DB, table string) (map[string]bool, error) {
	rows, err := conn.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// NewMigrator builds a migrate instance over the embedded migrations for
// driver. It opens its own connection so closing it never touches the gorm pool.
func NewMigrator(driver, dsn string) (*migrate.Migrate, error) {
	var (
		sqlDriver string
		dir       string
	)
	switch driver {
	case config.DriverPostgres:
		sqlDriver, dir = "postgres", "migrations/postgres"
	case config.DriverSQLite:
		sqlDriver, dir = "sqlite3", "migrations/sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	migrateDB, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	var instance migratedb.Driver
	if driver == config.DriverPostgres {
		instance, err = migratepg.WithInstance(migrateDB, &migratepg.Config{})
	} else {
		instance, err = migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	}
	if err != nil {
		_ = migrateDB.Close()
		return nil, fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		_ = migrateDB.Close()
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", src, driver, instance)
	if err != nil {
		_ = migrateDB.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// CloseMigrator releases the migrate source and its dedicated connection.
func CloseMigrator(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close closes the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureDir(path string) error {
	if path == "" || strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}
