package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Storage backends. JSON file storage is the default and the compatibility
// contract: the two data files must stay human-readable JSON documents.
// MySQL is opt-in via STORAGE_BACKEND=mysql.
const (
	StorageBackendJSON  = "json"
	StorageBackendMySQL = "mysql"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func LoadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		User:     getEnv("DB_USER", "user"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "learnspace"),
	}
}

// StorageBackend reports which persistence backend the server should use.
func StorageBackend() string {
	backend := strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendJSON))
	if backend != StorageBackendMySQL {
		return StorageBackendJSON
	}
	return StorageBackendMySQL
}

// DataDir is where the JSON storage files live.
func DataDir() string {
	return getEnv("DATA_DIR", "data")
}

func (c *DatabaseConfig) DSN() string {
	// clientFoundRows makes RowsAffected count matched rows, so no-change
	// updates are not mistaken for missing records.
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

func NewDatabase(config *DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// NewDatabaseWithRetry connects with retries and runs migrations once the
// connection is up. The MySQL container may still be starting when the
// server boots.
func NewDatabaseWithRetry(config *DatabaseConfig) (*sqlx.DB, error) {
	maxRetries := 30
	retryInterval := 2 * time.Second

	log := Log()
	log.Infof("📦 Connecting to database: %s@%s:%s/%s", config.User, config.Host, config.Port, config.DBName)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := sqlx.Connect("mysql", config.DSN())
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)

			if pingErr := db.Ping(); pingErr == nil {
				log.Infof("✅ Database connection established: %s@%s:%s/%s", config.User, config.Host, config.Port, config.DBName)

				if migErr := runMigrations(db); migErr != nil {
					log.Warnf("migration warning: %v", migErr)
				}

				return db, nil
			} else {
				db.Close()
				err = pingErr
			}
		}
		lastErr = err

		if i == 0 {
			log.Infof("⏳ Waiting for the database to come up (max %d attempts)...", maxRetries)
		}

		if i < maxRetries-1 {
			log.Infof("⏳ Retry %d/%d: %v", i+1, maxRetries, err)
			time.Sleep(retryInterval)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}

func runMigrations(db *sqlx.DB) error {
	Log().Info("🔧 Running database migrations...")

	return runMigrationFiles(db, "migrations")
}

// runMigrationFiles executes the .sql files of the given directory in name
// order.
func runMigrationFiles(db *sqlx.DB, migrationDir string) error {
	log := Log()

	files, err := os.ReadDir(migrationDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("migration directory does not exist: %s", migrationDir)
			return nil
		}
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}

	if len(sqlFiles) == 0 {
		log.Warn("no migration files found")
		return nil
	}

	for _, filename := range sqlFiles {
		path := fmt.Sprintf("%s/%s", migrationDir, filename)
		log.Infof("📄 Applying migration: %s", filename)

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", filename, err)
		}
	}

	log.Info("🎉 All migrations applied")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
