package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking-api/models"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	port := u.Port()
	if port == "" {
		port = "3306"
	}

	cfg := gomysql.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(u.Hostname(), port)
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	for key, values := range u.Query() {
		if len(values) > 0 {
			cfg.Params[key] = values[0]
		}
	}
	return cfg.FormatDSN(), nil
}

func mysqlDSN(c Config) (string, error) {
	if c.DBURL != "" {
		if strings.HasPrefix(c.DBURL, "mysql://") {
			return mysqlDSNFromURL(c.DBURL)
		}
		if _, err := gomysql.ParseDSN(c.DBURL); err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return c.DBURL, nil
	}

	port := c.DBPort
	if port == "" {
		port = "3306"
	}

	cfg := gomysql.NewConfig()
	cfg.User = c.DBUser
	cfg.Passwd = c.DBPass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.DBHost, port)
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

func postgresDSN(c Config) string {
	if c.DBURL != "" {
		return c.DBURL
	}
	port := c.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, port)
}

func sqliteDSN(c Config) string {
	if c.DBURL != "" {
		return c.DBURL
	}
	return c.DBName + ".db"
}

// Dialector picks the gorm driver for c.DBDriver.
func Dialector(c Config) (gorm.Dialector, error) {
	switch c.DBDriver {
	case "mysql":
		dsn, err := mysqlDSN(c)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(postgresDSN(c)), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(c)), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

// ConnectDatabase opens the configured database. It does not migrate.
func ConnectDatabase(c Config) (*gorm.DB, error) {
	dialector, err := Dialector(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(c.DBLogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// Migrate creates or updates the tables in parent -> child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Hotel{},
		&models.Accommodation{},
		&models.User{},
	)
}
