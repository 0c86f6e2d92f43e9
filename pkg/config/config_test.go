package config_test

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/pseudomuto/dwh/pkg/config"
	"github.com/pseudomuto/dwh/pkg/consts"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/dwh.yaml
var testConfigYAML string

func TestLoadConfig(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader(testConfigYAML))
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("error", func(t *testing.T) {
		// Invalid YAML
		config, err := LoadConfig(strings.NewReader("invalid: yaml: ["))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal dwh config")

		// Empty input
		config, err = LoadConfig(strings.NewReader(""))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal dwh config")
	})

	t.Run("defaults", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader("other_key: value"))
		require.NoError(t, err)
		require.NotNil(t, config)
		require.Equal(t, consts.DefaultRegion, config.AWS.Region)
		require.Equal(t, consts.DefaultClusterType, config.Cluster.Type)
		require.Equal(t, consts.DefaultNodeType, config.Cluster.NodeType)
		require.Equal(t, consts.DefaultNumNodes, config.Cluster.NumNodes)
		require.Equal(t, consts.DefaultWaitDelay, config.Cluster.Wait.Delay)
		require.Equal(t, consts.DefaultWaitAttempts, config.Cluster.Wait.MaxAttempts)
		require.Equal(t, consts.DefaultWaitTimeout, config.Cluster.Wait.Timeout)
		require.Equal(t, consts.DefaultDatabasePort, config.Database.Port)
		require.Equal(t, consts.DefaultPolicyARN, config.IAM.PolicyARN)
		require.Equal(t, consts.DefaultRegion, config.S3.Region)
	})

	t.Run("single node clusters have no node count", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader("cluster:\n  type: single-node\n"))
		require.NoError(t, err)
		require.Zero(t, config.Cluster.NumNodes)
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dwh.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), consts.ModeFile))

		config, err := LoadConfigFile(path)
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		config, err := LoadConfigFile("nonexistent.yaml")
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to open file")
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DWH_DB_PASSWORD":       "from-env",
		"DWH_DB_PORT":           "5440",
		"DWH_IAM_ROLE_ARN":      "arn:aws:iam::123456789012:role/dwhRole",
		"DWH_AWS_ACCESS_KEY_ID": "",
		"DWH_DB_HOST":           "example.redshift.amazonaws.com",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	config, err := LoadConfig(strings.NewReader(testConfigYAML))
	require.NoError(t, err)

	require.NoError(t, ApplyEnv(config, lookup))
	require.Equal(t, "from-env", config.Database.Password)
	require.Equal(t, 5440, config.Database.Port)
	require.Equal(t, "arn:aws:iam::123456789012:role/dwhRole", config.IAM.RoleARN)
	require.Equal(t, "example.redshift.amazonaws.com", config.Database.Host)

	// empty values don't clobber the file
	require.Equal(t, "AKIAEXAMPLE", config.AWS.AccessKeyID)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "DWH_DB_PORT" {
			return "fifty-four-thirty-nine", true
		}
		return "", false
	}

	config, err := LoadConfig(strings.NewReader(testConfigYAML))
	require.NoError(t, err)

	err = ApplyEnv(config, lookup)
	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid DWH_DB_PORT: "fifty-four-thirty-nine"`)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DWH_TEST_DOTENV_VALUE=loaded\n"), consts.ModeFile))
	t.Cleanup(func() { _ = os.Unsetenv("DWH_TEST_DOTENV_VALUE") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	require.Equal(t, "loaded", os.Getenv("DWH_TEST_DOTENV_VALUE"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name: "missing credentials",
			mutate: func(c *Config) {
				c.Database.Password = ""
				c.IAM.RoleName = " "
			},
			wantErr: "missing required config values: database.password, iam.role_name",
		},
		{
			name: "multi-node with one node",
			mutate: func(c *Config) {
				c.Cluster.NumNodes = 1
			},
			wantErr: "cluster.num_nodes must be at least 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(strings.NewReader(testConfigYAML))
			require.NoError(t, err)

			tt.mutate(config)
			err = config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateStaging(t *testing.T) {
	config, err := LoadConfig(strings.NewReader(testConfigYAML))
	require.NoError(t, err)
	require.NoError(t, config.ValidateStaging())

	config.S3.SongData = ""
	require.Error(t, config.ValidateStaging())
}

func validateTestConfig(t *testing.T, config *Config) {
	t.Helper()

	require.Equal(t, "us-west-2", config.AWS.Region)
	require.Equal(t, "AKIAEXAMPLE", config.AWS.AccessKeyID)
	require.Equal(t, "dwhCluster", config.Cluster.Identifier)
	require.Equal(t, "multi-node", config.Cluster.Type)
	require.Equal(t, 4, config.Cluster.NumNodes)
	require.Equal(t, 10*time.Second, config.Cluster.Wait.Delay)
	require.Equal(t, 30, config.Cluster.Wait.MaxAttempts)
	require.Equal(t, 20*time.Minute, config.Cluster.Wait.Timeout)
	require.Equal(t, "dwh", config.Database.Name)
	require.Equal(t, "dwhuser", config.Database.User)
	require.Equal(t, 5439, config.Database.Port)
	require.Equal(t, "dwhRole", config.IAM.RoleName)
	require.Equal(t, "s3://udacity-dend/log_json_path.json", config.S3.LogJSONPath)
	require.Equal(t, "us-west-2", config.S3.Region)
}
