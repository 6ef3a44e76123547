package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabase is returned when neither DATABASE_URL nor POSTGRES_HOST is
// set. The server then runs without game records.
var ErrNoDatabase = errors.New("no database configured")

func HasDatabase() bool {
	_, hasURL := os.LookupEnv("DATABASE_URL")
	_, hasHost := os.LookupEnv("POSTGRES_HOST")
	return hasURL || hasHost
}

// Database is assembled from the POSTGRES_* variables when no DATABASE_URL
// is given.
type Database struct {
	Username string
	Password string
	Host     string
	Port     int
	DBName   string
	SSLMode  string
}

func lookupString(name, fallback string) string {
	if s, ok := os.LookupEnv(name); ok && s != "" {
		return s
	}
	return fallback
}

// The password comes from POSTGRES_PASSWORD or from the file named by
// POSTGRES_PASSWORD_FILE, as docker secrets are mounted.
func loadPassword() (string, error) {
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		return password, nil
	}
	passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", nil
	}
	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func NewDatabase() (*Database, error) {
	host, ok := os.LookupEnv("POSTGRES_HOST")
	if !ok {
		return nil, ErrNoDatabase
	}
	username, ok := os.LookupEnv("POSTGRES_USER")
	if !ok {
		return nil, fmt.Errorf("no POSTGRES_USER env variable set")
	}
	password, err := loadPassword()
	if err != nil {
		return nil, err
	}
	port, err := lookupInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, err
	}

	return &Database{
		Username: username,
		Password: password,
		Host:     host,
		Port:     port,
		DBName:   lookupString("POSTGRES_DB", "hexmines"),
		SSLMode:  lookupString("POSTGRES_SSLMODE", "disable"),
	}, nil
}

func (c Database) URL() string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func DbURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}
	cfg, err := NewDatabase()
	if err != nil {
		return "", err
	}
	return cfg.URL(), nil
}

// NewPgxpoolConfig parses the database URL and applies DB_MAX_CONNS when set.
func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DbURL()
	if err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}
	maxConns, err := lookupInt("DB_MAX_CONNS", int(cfg.MaxConns))
	if err != nil {
		return nil, err
	}
	if maxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", maxConns)
	}
	cfg.MaxConns = int32(maxConns)
	return cfg, nil
}
