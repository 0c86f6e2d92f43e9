package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/consts"
	"gopkg.in/yaml.v3"
)

type (
	// AWS holds the credentials and region used for every AWS client.
	AWS struct {
		// Region is the AWS region the cluster and role are managed in
		Region string `yaml:"region,omitempty"`

		// AccessKeyID and SecretAccessKey are optional static credentials. When empty,
		// the default credential chain (env, shared config, instance role) is used.
		AccessKeyID     string `yaml:"access_key_id,omitempty"`
		SecretAccessKey string `yaml:"secret_access_key,omitempty"`

		// Endpoint overrides the base endpoint of every client (e.g. LocalStack)
		Endpoint string `yaml:"endpoint,omitempty"`
	}

	// Wait bounds the poll loop that waits for a cluster to become available.
	Wait struct {
		// Delay is the fixed delay between status checks
		Delay time.Duration `yaml:"delay,omitempty"`

		// MaxAttempts is the maximum number of status checks
		MaxAttempts int `yaml:"max_attempts,omitempty"`

		// Timeout bounds the total wait regardless of attempts remaining
		Timeout time.Duration `yaml:"timeout,omitempty"`
	}

	// Cluster describes the Redshift cluster to create.
	Cluster struct {
		Identifier string `yaml:"identifier"`
		Type       string `yaml:"type,omitempty"`
		NodeType   string `yaml:"node_type,omitempty"`
		NumNodes   int    `yaml:"num_nodes,omitempty"`
		Wait       Wait   `yaml:"wait,omitempty"`
	}

	// Database holds the warehouse connection settings. Name, User and Password are
	// also used as the cluster's database name and master credentials.
	Database struct {
		// Host is the cluster endpoint. When empty it is resolved from the cluster.
		Host     string `yaml:"host,omitempty"`
		Name     string `yaml:"name"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Port     int    `yaml:"port,omitempty"`
		SSLMode  string `yaml:"sslmode,omitempty"`
	}

	// IAM names the role the cluster assumes to read from S3.
	IAM struct {
		RoleName  string `yaml:"role_name"`
		PolicyARN string `yaml:"policy_arn,omitempty"`

		// RoleARN skips the role lookup when loading staging tables
		RoleARN string `yaml:"role_arn,omitempty"`
	}

	// S3 holds the source locations of the raw JSON data.
	S3 struct {
		LogData     string `yaml:"log_data"`
		LogJSONPath string `yaml:"log_jsonpath,omitempty"`
		SongData    string `yaml:"song_data"`

		// Region is the bucket region passed to COPY. Defaults to aws.region.
		Region string `yaml:"region,omitempty"`
	}

	// Config represents the full dwh configuration.
	Config struct {
		AWS      AWS      `yaml:"aws"`
		Cluster  Cluster  `yaml:"cluster"`
		Database Database `yaml:"database"`
		IAM      IAM      `yaml:"iam"`
		S3       S3       `yaml:"s3"`
	}
)

// LoadConfig parses a configuration from the provided io.Reader.
//
// The function expects YAML-formatted configuration data. Values not present in the
// document are filled from the defaults in pkg/consts, and DWH_* environment variables
// (see ApplyEnv) take precedence over values from the document.
//
// Example:
//
//	yamlData := `
//	cluster:
//	  identifier: dwhCluster
//	database:
//	  name: dwh
//	  user: dwhuser
//	  password: Passw0rd
//	iam:
//	  role_name: dwhRole
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Cluster: %s\n", cfg.Cluster.Identifier)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal dwh config")
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
//
// Example:
//
//	cfg, err := config.LoadConfigFile("dwh.yaml")
//	if err != nil {
//		log.Fatal("Failed to load config:", err)
//	}
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// Validate reports every required field that is missing.
func (c *Config) Validate() error {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	check("cluster.identifier", c.Cluster.Identifier)
	check("database.name", c.Database.Name)
	check("database.user", c.Database.User)
	check("database.password", c.Database.Password)
	check("iam.role_name", c.IAM.RoleName)

	if len(missing) > 0 {
		return errors.Errorf("missing required config values: %s", strings.Join(missing, ", "))
	}

	if c.Cluster.Type == "multi-node" && c.Cluster.NumNodes < 2 {
		return errors.Errorf("cluster.num_nodes must be at least 2 for multi-node clusters, got %d", c.Cluster.NumNodes)
	}

	return nil
}

// ValidateStaging reports missing S3 source locations required by the etl command.
func (c *Config) ValidateStaging() error {
	if c.S3.LogData == "" || c.S3.SongData == "" {
		return errors.New("s3.log_data and s3.song_data are required to load staging tables")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.AWS.Region == "" {
		c.AWS.Region = consts.DefaultRegion
	}
	if c.Cluster.Type == "" {
		c.Cluster.Type = consts.DefaultClusterType
	}
	if c.Cluster.NodeType == "" {
		c.Cluster.NodeType = consts.DefaultNodeType
	}
	if c.Cluster.NumNodes == 0 && c.Cluster.Type == "multi-node" {
		c.Cluster.NumNodes = consts.DefaultNumNodes
	}
	if c.Cluster.Wait.Delay <= 0 {
		c.Cluster.Wait.Delay = consts.DefaultWaitDelay
	}
	if c.Cluster.Wait.MaxAttempts <= 0 {
		c.Cluster.Wait.MaxAttempts = consts.DefaultWaitAttempts
	}
	if c.Cluster.Wait.Timeout <= 0 {
		c.Cluster.Wait.Timeout = consts.DefaultWaitTimeout
	}
	if c.Database.Port == 0 {
		c.Database.Port = consts.DefaultDatabasePort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = consts.DefaultSSLMode
	}
	if c.IAM.PolicyARN == "" {
		c.IAM.PolicyARN = consts.DefaultPolicyARN
	}
	if c.S3.Region == "" {
		c.S3.Region = c.AWS.Region
	}
}
