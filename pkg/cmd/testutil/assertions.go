package testutil

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// FakeConn records executed statements in place of a warehouse connection.
type FakeConn struct {
	Statements []string
	Closed     bool

	// FailOn makes the first statement containing it fail with Err
	FailOn string
	Err    error
}

func (f *FakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.Statements = append(f.Statements, sql)
	if f.FailOn != "" && strings.Contains(sql, f.FailOn) {
		return pgconn.CommandTag{}, f.Err
	}

	return pgconn.NewCommandTag("OK"), nil
}

func (f *FakeConn) Close(context.Context) error {
	f.Closed = true
	return nil
}

// RequireLines asserts that output contains every expected line, in order.
func RequireLines(t *testing.T, output string, expected ...string) {
	t.Helper()

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	pos := 0
	for _, want := range expected {
		idx := slices.IndexFunc(lines[pos:], func(line string) bool {
			return strings.Contains(line, want)
		})
		require.NotEqual(t, -1, idx, "expected a line containing %q after line %d in:\n%s", want, pos, output)
		pos += idx + 1
	}
}
