package cloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/config"
)

// Clients groups the AWS service clients used by dwh.
type Clients struct {
	IAM      IAMAPI
	Redshift RedshiftAPI
	EC2      EC2API
	S3       S3API
}

// LoadAWSConfig resolves the SDK configuration for cfg.
//
// Static credentials are used when both keys are configured, otherwise the default
// credential chain applies. A configured endpoint overrides the base endpoint of every
// client, which is how dwh is pointed at LocalStack and similar emulators.
func LoadAWSConfig(ctx context.Context, cfg config.AWS) (aws.Config, error) {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	if cfg.Endpoint != "" {
		opts = append(opts, awsConfig.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load AWS config")
	}

	return awsCfg, nil
}

// New builds every service client from cfg.
func New(ctx context.Context, cfg config.AWS) (*Clients, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Clients{
		IAM:      iam.NewFromConfig(awsCfg),
		Redshift: redshift.NewFromConfig(awsCfg),
		EC2:      ec2.NewFromConfig(awsCfg),
		S3: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			// emulators rarely support virtual hosted buckets
			o.UsePathStyle = cfg.Endpoint != ""
		}),
	}, nil
}
