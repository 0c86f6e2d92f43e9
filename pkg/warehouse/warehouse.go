package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/config"
	"github.com/pseudomuto/dwh/pkg/executor"
	"github.com/sirupsen/logrus"
)

// ConnectTimeout bounds how long establishing a connection may take.
const ConnectTimeout = 30 * time.Second

type (
	// Conn is a warehouse connection that statements can be executed on.
	Conn interface {
		executor.Execer
		Close(context.Context) error
	}

	// Dialer opens a connection for the given DSN.
	Dialer func(ctx context.Context, dsn string) (Conn, error)

	// HostFunc resolves the warehouse host when none is configured.
	HostFunc func(context.Context) (string, error)

	// Connector opens logged connections to the configured warehouse.
	Connector struct {
		db      config.Database
		dial    Dialer
		resolve HostFunc
		log     logrus.FieldLogger
	}

	// ConnectorParams contains the dependencies of a Connector.
	ConnectorParams struct {
		Database config.Database
		Dialer   Dialer

		// Resolve is consulted when Database.Host is empty
		Resolve HostFunc
		Logger  logrus.FieldLogger
	}
)

// Dial connects to dsn using pgx. Redshift speaks the PostgreSQL wire protocol.
func Dial(ctx context.Context, dsn string) (Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// NewConnector creates a Connector from p.
func NewConnector(p ConnectorParams) *Connector {
	dial := p.Dialer
	if dial == nil {
		dial = Dial
	}

	log := p.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Connector{db: p.Database, dial: dial, resolve: p.Resolve, log: log}
}

// Connect opens a connection to the warehouse. Every statement executed on the returned
// connection is logged at debug level. The caller owns the connection and must close it.
func (c *Connector) Connect(ctx context.Context) (Conn, error) {
	host := c.db.Host
	if host == "" {
		if c.resolve == nil {
			return nil, errors.New("database.host is not configured")
		}

		resolved, err := c.resolve(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve warehouse host")
		}

		host = resolved
	}

	log := c.log.WithFields(logrus.Fields{"host": host, "database": c.db.Name})

	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	conn, err := c.dial(ctx, DSN(c.db, host))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", host)
	}

	log.Info("Connected to warehouse")
	return NewLoggingConn(conn, log), nil
}

// DSN builds a keyword/value connection string for db on host.
func DSN(db config.Database, host string) string {
	pairs := []struct{ key, value string }{
		{"host", host},
		{"port", fmt.Sprint(db.Port)},
		{"dbname", db.Name},
		{"user", db.User},
		{"password", db.Password},
		{"sslmode", db.SSLMode},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" || p.value == "0" {
			continue
		}

		parts = append(parts, p.key+"="+quote(p.value))
	}

	return strings.Join(parts, " ")
}

func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
