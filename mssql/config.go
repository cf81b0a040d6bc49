package mssql

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/go-playground/validator/v10"
)

// DriverName is the database/sql driver registered by go-mssqldb that
// accepts ? placeholders.
const DriverName = "mssql"

const defaultAppName = "udp-paging"

var validate = validator.New()

// Config describes how to reach a SQL Server instance. It replaces a
// hardcoded server address: callers build one and hand it to the client.
//
// Leaving User empty selects integrated (trusted) authentication, which
// go-mssqldb supports through SSPI on Windows only. Elsewhere an empty User
// is sent as an empty SQL login and fails; set User and Password there.
type Config struct {
	// Server is the host name or address, optionally followed by
	// \INSTANCE (e.g. "udpdev.ad.rice.edu\udp").
	Server string `yaml:"server" validate:"required"`

	// Instance is a named instance. It overrides one embedded in Server.
	Instance string `yaml:"instance"`

	// Port is the TCP port; zero lets the driver discover it.
	Port int `yaml:"port" validate:"omitempty,min=1,max=65535"`

	// Database is the initial catalog. The client sets it per call.
	Database string `yaml:"database"`

	// User and Password select SQL authentication.
	User     string `yaml:"user"`
	Password string `yaml:"password" validate:"required_with=User"`

	// Encrypt is passed through to the driver ("true", "false", "disable").
	Encrypt string `yaml:"encrypt" validate:"omitempty,oneof=true false disable"`

	TrustServerCertificate bool `yaml:"trust_server_certificate"`

	AppName string `yaml:"app_name"`

	// DialTimeout bounds connection establishment. Zero keeps the driver default.
	DialTimeout time.Duration `yaml:"dial_timeout" validate:"gte=0"`

	// MaxOpenConns and MaxIdleConns size the database/sql pool.
	MaxOpenConns int `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int `yaml:"max_idle_conns" validate:"gte=0"`
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid sql server config")
	}
	return nil
}

// WithDatabase returns a copy of c that connects to database.
func (c Config) WithDatabase(database string) Config {
	c.Database = database
	return c
}

// HostInstance splits Server into host and instance name. An explicit
// Instance wins over one embedded in Server.
func (c Config) HostInstance() (host, instance string) {
	host = c.Server
	if i := strings.IndexByte(host, '\\'); i >= 0 {
		host, instance = host[:i], host[i+1:]
	}
	if c.Instance != "" {
		instance = c.Instance
	}
	return host, instance
}

// DSN renders the connection string in go-mssqldb URL form.
func (c Config) DSN() string {
	host, instance := c.HostInstance()
	if c.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(c.Port))
	}

	query := url.Values{}
	appName := c.AppName
	if appName == "" {
		appName = defaultAppName
	}
	query.Set("app name", appName)
	if c.Database != "" {
		query.Set("database", c.Database)
	}
	if c.Encrypt != "" {
		query.Set("encrypt", c.Encrypt)
	}
	if c.TrustServerCertificate {
		query.Set("TrustServerCertificate", "true")
	}
	if c.DialTimeout > 0 {
		query.Set("dial timeout", strconv.Itoa(int(c.DialTimeout.Seconds())))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     host,
		RawQuery: query.Encode(),
	}
	if instance != "" {
		u.Path = "/" + instance
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}
