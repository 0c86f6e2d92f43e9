package consts

import (
	"os"
	"time"
)

const (
	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the configuration file looked up in the working directory
	DefaultConfigFile = "dwh.yaml"

	// DefaultRegion is the AWS region used when none is configured
	DefaultRegion = "us-west-2"

	// DefaultClusterType is the Redshift cluster type used when none is configured
	DefaultClusterType = "multi-node"

	// DefaultNodeType is the Redshift node type used when none is configured
	DefaultNodeType = "dc2.large"

	// DefaultNumNodes is the number of nodes for multi-node clusters
	DefaultNumNodes = 4

	// DefaultDatabasePort is the port Redshift listens on
	DefaultDatabasePort = 5439

	// DefaultSSLMode is the libpq sslmode used for warehouse connections
	DefaultSSLMode = "prefer"

	// DefaultPolicyARN is the managed policy attached to the cluster role
	DefaultPolicyARN = "arn:aws:iam::aws:policy/AmazonS3ReadOnlyAccess"

	// DefaultWaitDelay is the fixed delay between cluster status checks
	DefaultWaitDelay = 30 * time.Second

	// DefaultWaitAttempts is the maximum number of cluster status checks
	DefaultWaitAttempts = 20

	// DefaultWaitTimeout bounds the total time spent waiting for a cluster
	DefaultWaitTimeout = 15 * time.Minute

	// DefaultLogLevel is the logrus level used when none is configured
	DefaultLogLevel = "info"

	// RedshiftServicePrincipal is allowed to assume the cluster role
	RedshiftServicePrincipal = "redshift.amazonaws.com"

	// IngressCIDR is the source range opened on the cluster's security group
	IngressCIDR = "0.0.0.0/0"

	// EnvPrefix prefixes every environment variable that overrides configuration
	EnvPrefix = "DWH_"
)
