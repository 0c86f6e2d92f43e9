package logging_test

import (
	"bytes"
	"testing"

	"github.com/pseudomuto/dwh/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger, err := logging.New(&buf, "")
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.WithField("cluster", "dwhCluster").Debug("hidden")
	logger.WithField("cluster", "dwhCluster").Info("Cluster available")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `msg="Cluster available"`)
	require.Contains(t, out, "cluster=dwhCluster")
}

func TestSetLevel(t *testing.T) {
	logger := logrus.New()

	require.NoError(t, logging.SetLevel(logger, " debug "))
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())

	err := logging.SetLevel(logger, "loud")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid log level: loud")
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
}
