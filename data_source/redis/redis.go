package redis

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xuenqlve/checkkit/errors"
)

const defaultTimeout = "3s"

type Config struct {
	// Address is host:port; cluster nodes are separated by ";".
	Address  string `toml:"address" json:"address" yaml:"address"`
	Username string `toml:"username" json:"username" yaml:"username"`
	Password string `toml:"password" json:"password" yaml:"password"`
	DB       int    `toml:"db" json:"db" yaml:"db"`
	TLS      bool   `toml:"tls" json:"tls" yaml:"tls"`
	Cluster  bool   `toml:"cluster" json:"cluster" yaml:"cluster"`
	// Timeout for dialing, reading and writing.
	// The value must be a decimal number with a unit suffix ("ms", "s", "m", "h"), such as "3s".
	Timeout         string        `toml:"timeout" json:"timeout" yaml:"timeout"`
	TimeoutDuration time.Duration `toml:"-" json:"-" yaml:"-"`
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Address == "" {
		return errors.New("redis address is required")
	}
	if c.Timeout == "" {
		c.Timeout = defaultTimeout
	}
	var err error
	if c.TimeoutDuration, err = time.ParseDuration(c.Timeout); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (c *Config) addrs() []string {
	return strings.Split(c.Address, ";")
}

// Connect 创建客户端并 ping 一次，集群模式返回 ClusterClient
func (c *Config) Connect(ctx context.Context) (redis.UniversalClient, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}
	var tlsConfig *tls.Config
	if c.TLS {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var client redis.UniversalClient
	if c.Cluster {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.addrs(),
			Username:        c.Username,
			Password:        c.Password,
			MaxRedirects:    600,
			MinRetryBackoff: 8 * time.Millisecond,
			MaxRetryBackoff: 1 * time.Second,
			DialTimeout:     c.TimeoutDuration,
			ReadTimeout:     c.TimeoutDuration,
			WriteTimeout:    c.TimeoutDuration,
			TLSConfig:       tlsConfig,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         c.addrs()[0],
			Username:     c.Username,
			Password:     c.Password,
			DB:           c.DB,
			DialTimeout:  c.TimeoutDuration,
			ReadTimeout:  c.TimeoutDuration,
			WriteTimeout: c.TimeoutDuration,
			TLSConfig:    tlsConfig,
		})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Annotatef(err, "ping redis %s", c.Address)
	}
	return client, nil
}
