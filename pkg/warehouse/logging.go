package warehouse

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

type loggingConn struct {
	conn   Conn
	logger logrus.FieldLogger
}

// NewLoggingConn wraps conn so that every executed statement is logged at debug level.
func NewLoggingConn(conn Conn, logger logrus.FieldLogger) Conn {
	return &loggingConn{conn: conn, logger: logger}
}

func (c *loggingConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := c.conn.Exec(ctx, sql, args...)

	entry := c.logger.WithField("duration", time.Since(start))
	if err != nil {
		entry.WithError(err).Debugf("EXEC: %s", sql)
		return tag, err
	}

	entry.WithField("rows", tag.RowsAffected()).Debugf("EXEC: %s", sql)
	return tag, nil
}

func (c *loggingConn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
