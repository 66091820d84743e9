package mysql

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/xuenqlve/checkkit/errors"
)

type Config struct {
	Host     string `toml:"host" json:"host" yaml:"host"`
	Location string `toml:"location" json:"location" yaml:"location"`
	Username string `toml:"username" json:"username" yaml:"username"`
	Password string `toml:"password" json:"password" yaml:"password"`
	Port     int    `toml:"port" json:"port" yaml:"port"`
	Database string `toml:"database" json:"database" yaml:"database"`
	// Timeout for establishing connections, aka dial timeout.
	// The value must be a decimal number with a unit suffix ("ms", "s", "m", "h"), such as "30s", "0.5m" or "1m30s".
	Timeout string `toml:"timeout" json:"timeout" yaml:"timeout"`
	// I/O read timeout.
	ReadTimeout string `toml:"read-timeout" json:"read-timeout" yaml:"read-timeout"`
	// I/O write timeout.
	WriteTimeout string `toml:"write-timeout" json:"write-timeout" yaml:"write-timeout"`

	// 检查脚本只需要少量连接
	MaxOpen int `toml:"max-open" json:"max-open" yaml:"max-open"`
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.Location == "" {
		c.Location = time.Local.String()
	}
	if c.MaxOpen == 0 {
		c.MaxOpen = 2
	}

	for _, d := range []*string{&c.Timeout, &c.ReadTimeout, &c.WriteTimeout} {
		if *d == "" {
			*d = "5s"
		}
		if _, err := time.ParseDuration(*d); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (c *Config) DSN() string {
	dbDSN := fmt.Sprintf(`%s:%s@tcp(%s:%d)/%s?interpolateParams=true&timeout=%s&readTimeout=%s&writeTimeout=%s&parseTime=false&collation=utf8mb4_general_ci&charset=utf8mb4`,
		c.Username, c.Password, c.Host, c.Port, url.QueryEscape(c.Database), c.Timeout, c.ReadTimeout, c.WriteTimeout)
	if c.Location != "" {
		dbDSN += "&loc=" + url.QueryEscape(c.Location)
	}
	return dbDSN
}

func (c *Config) Connect() (*sql.DB, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}

	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, errors.Trace(err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "connecting to %s:%d failed", c.Host, c.Port)
	}

	db.SetMaxOpenConns(c.MaxOpen)
	db.SetMaxIdleConns(c.MaxOpen)

	return db, nil
}
