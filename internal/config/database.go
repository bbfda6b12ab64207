package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ConnectionPoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// getWriterConfig loads writer database configuration from environment variables
func getWriterConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     getEnvOrDefault("POSTGRES_WRITER_HOST", "localhost"),
		Port:     getEnvOrDefault("POSTGRES_WRITER_PORT", "5432"),
		User:     getEnvOrDefault("POSTGRES_WRITER_USER", "postgres"),
		Password: getEnvOrDefault("POSTGRES_WRITER_PASSWORD", ""),
		DBName:   getEnvOrDefault("POSTGRES_WRITER_DB_NAME", "remote_config"),
		SSLMode:  getEnvOrDefault("POSTGRES_WRITER_SSL_MODE", "disable"),
	}
}

// getReaderConfig loads reader database configuration. Unset reader
// variables fall back to the writer's so a single-node setup needs no
// extra configuration.
func getReaderConfig() *DatabaseConfig {
	writer := getWriterConfig()
	return &DatabaseConfig{
		Host:     getEnvOrDefault("POSTGRES_READER_HOST", writer.Host),
		Port:     getEnvOrDefault("POSTGRES_READER_PORT", writer.Port),
		User:     getEnvOrDefault("POSTGRES_READER_USER", writer.User),
		Password: getEnvOrDefault("POSTGRES_READER_PASSWORD", writer.Password),
		DBName:   getEnvOrDefault("POSTGRES_READER_DB_NAME", writer.DBName),
		SSLMode:  getEnvOrDefault("POSTGRES_READER_SSL_MODE", writer.SSLMode),
	}
}

func getConnectionPoolConfig() *ConnectionPoolConfig {
	return &ConnectionPoolConfig{
		MaxOpenConns:    getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", 1*time.Hour),
	}
}

// BuildDSN creates PostgreSQL connection string from configuration
func (c *DatabaseConfig) BuildDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func configureConnectionPool(gormDB *gorm.DB, poolConfig *ConnectionPoolConfig) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(poolConfig.ConnMaxLifetime)

	return nil
}

func gormLogLevel() logger.LogLevel {
	if getEnvOrDefault("APP_ENV", "development") == "production" {
		return logger.Warn
	}
	return logger.Info
}

func createDatabaseConnection(config *DatabaseConfig, poolConfig *ConnectionPoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.BuildDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel()),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configureConnectionPool(db, poolConfig); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}

	return db, nil
}

// DatabaseConnections holds both writer and reader database connections.
// Writer and Reader may point at the same *gorm.DB.
type DatabaseConnections struct {
	Writer *gorm.DB
	Reader *gorm.DB
}

// NewDatabaseConnections creates both writer and reader database connections
func NewDatabaseConnections() (*DatabaseConnections, error) {
	poolConfig := getConnectionPoolConfig()

	writer, err := createDatabaseConnection(getWriterConfig(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create writer database connection: %w", err)
	}

	reader, err := createDatabaseConnection(getReaderConfig(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader database connection: %w", err)
	}

	return &DatabaseConnections{
		Writer: writer,
		Reader: reader,
	}, nil
}

// SingleConnection uses one handle for both reads and writes.
func SingleConnection(db *gorm.DB) *DatabaseConnections {
	return &DatabaseConnections{Writer: db, Reader: db}
}

// Ping checks that both connections answer.
func (dc *DatabaseConnections) Ping() error {
	for name, db := range map[string]*gorm.DB{"writer": dc.Writer, "reader": dc.Reader} {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Close closes both writer and reader database connections
func (dc *DatabaseConnections) Close() error {
	var writerErr, readerErr error

	if dc.Writer != nil {
		if sqlDB, err := dc.Writer.DB(); err == nil {
			writerErr = sqlDB.Close()
		}
	}

	if dc.Reader != nil && dc.Reader != dc.Writer {
		if sqlDB, err := dc.Reader.DB(); err == nil {
			readerErr = sqlDB.Close()
		}
	}

	if writerErr != nil {
		return fmt.Errorf("failed to close writer database connection: %w", writerErr)
	}
	if readerErr != nil {
		return fmt.Errorf("failed to close reader database connection: %w", readerErr)
	}

	return nil
}
