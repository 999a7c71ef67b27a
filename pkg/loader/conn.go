package loader

import (
	"os"

	"github.com/ddeutils/flowext/pkg/conn"
	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// connConfig is the declarative shape of a connection document. Either a
// full url or discrete fields may be given; discrete fields override the
// corresponding url parts.
type connConfig struct {
	Type     string            `yaml:"type"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Pwd      string            `yaml:"pwd"`
	Endpoint string            `yaml:"endpoint"`
	Extras   map[string]string `yaml:"extras"`
}

// LoadConn parses a connection descriptor from YAML bytes. overrides are
// externally supplied secret/parameter overrides merged into extras last.
func LoadConn(data []byte, overrides map[string]string) (conn.Conn, error) {
	var cfg connConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return conn.Conn{}, err
	}
	return buildConn(cfg, overrides)
}

// LoadConnFile parses a connection descriptor from a YAML file.
func LoadConnFile(path string, overrides map[string]string) (conn.Conn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return conn.Conn{}, flowerrors.Wrap(err, flowerrors.ErrorTypeFile,
			"cannot read connection config "+path)
	}
	return LoadConn(data, overrides)
}

func buildConn(cfg connConfig, overrides map[string]string) (conn.Conn, error) {
	var c conn.Conn

	if cfg.URL != "" {
		parsed, err := conn.FromURL(cfg.URL)
		if err != nil {
			return conn.Conn{}, wrapModelErr(err, "url")
		}
		c = parsed
	}

	if cfg.Type != "" {
		c.Dialect = cfg.Type
	}
	if cfg.Host != "" {
		c.Host = cfg.Host
	}
	if cfg.Port != 0 {
		c.Port = cfg.Port
	}
	if cfg.User != "" {
		c.User = cfg.User
	}
	if cfg.Pwd != "" {
		c.Password = conn.Secret(cfg.Pwd)
	}
	if cfg.Endpoint != "" {
		c.Endpoint = cfg.Endpoint
	}
	c, err := c.WithExtras(cfg.Extras).ApplyOverrides(overrides)
	if err != nil {
		return conn.Conn{}, err
	}

	if err := c.Validate(); err != nil {
		return conn.Conn{}, err
	}
	return c, nil
}
