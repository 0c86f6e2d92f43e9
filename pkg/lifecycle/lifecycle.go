package lifecycle

import (
	"github.com/pseudomuto/dwh/pkg/cloud"
	"github.com/pseudomuto/dwh/pkg/config"
	"github.com/sirupsen/logrus"
)

const (
	resourceRole    = "iam-role"
	resourcePolicy  = "iam-role-policy"
	resourceCluster = "cluster"
	resourceIngress = "security-group-ingress"
)

type (
	// Manager creates and removes the warehouse cluster and its IAM role.
	//
	// Every operation is safe to repeat: resources that already exist (or are already
	// gone) are reported as StatusSatisfied rather than treated as errors.
	Manager struct {
		iam      cloud.IAMAPI
		redshift cloud.RedshiftAPI
		ec2      cloud.EC2API
		cfg      *config.Config
		log      logrus.FieldLogger
	}

	// Params contains the dependencies of a Manager.
	Params struct {
		IAM      cloud.IAMAPI
		Redshift cloud.RedshiftAPI
		EC2      cloud.EC2API
		Config   *config.Config
		Logger   logrus.FieldLogger
	}
)

// New creates a Manager from p.
func New(p Params) *Manager {
	log := p.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Manager{
		iam:      p.IAM,
		redshift: p.Redshift,
		ec2:      p.EC2,
		cfg:      p.Config,
		log:      log,
	}
}

// NewFromClients creates a Manager using the AWS clients in c.
func NewFromClients(c *cloud.Clients, cfg *config.Config, log logrus.FieldLogger) *Manager {
	return New(Params{
		IAM:      c.IAM,
		Redshift: c.Redshift,
		EC2:      c.EC2,
		Config:   cfg,
		Logger:   log,
	})
}
