package testutil

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	rstypes "github.com/aws/aws-sdk-go-v2/service/redshift/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pseudomuto/dwh/pkg/cloud"
	"github.com/pseudomuto/dwh/pkg/config"
	"github.com/pseudomuto/dwh/pkg/consts"
)

// ClusterAddress is the endpoint reported by FakeRedshift for available clusters.
const ClusterAddress = "dwhcluster.abc123.us-west-2.redshift.amazonaws.com"

// DefaultConfig returns a complete configuration for testing. The wait loop polls without
// delay so cluster commands finish immediately.
func DefaultConfig() *config.Config {
	return &config.Config{
		AWS: config.AWS{Region: consts.DefaultRegion},
		Cluster: config.Cluster{
			Identifier: "dwhCluster",
			Type:       consts.DefaultClusterType,
			NodeType:   consts.DefaultNodeType,
			NumNodes:   consts.DefaultNumNodes,
			Wait: config.Wait{
				Delay:       time.Millisecond,
				MaxAttempts: 3,
				Timeout:     time.Second,
			},
		},
		Database: config.Database{
			Name:     "dwh",
			User:     "dwhuser",
			Password: "Passw0rd",
			Port:     consts.DefaultDatabasePort,
			SSLMode:  consts.DefaultSSLMode,
		},
		IAM: config.IAM{
			RoleName:  "dwhRole",
			PolicyARN: consts.DefaultPolicyARN,
		},
		S3: config.S3{
			LogData:     "s3://udacity-dend/log_data",
			LogJSONPath: "s3://udacity-dend/log_json_path.json",
			SongData:    "s3://udacity-dend/song_data",
			Region:      consts.DefaultRegion,
		},
	}
}

// AWS is an in-memory stand in for every AWS service dwh uses.
type AWS struct {
	IAM      *FakeIAM
	Redshift *FakeRedshift
	EC2      *FakeEC2
	S3       *FakeS3
}

// NewAWS returns an empty account: no roles, no cluster, a default security group and no
// buckets.
func NewAWS() *AWS {
	return &AWS{
		IAM:      &FakeIAM{Roles: map[string]string{}, Attached: map[string]bool{}},
		Redshift: &FakeRedshift{},
		EC2:      &FakeEC2{Rules: map[string]bool{}},
		S3:       &FakeS3{Objects: map[string]map[string]string{}},
	}
}

// Clients wraps the fakes as *cloud.Clients.
func (a *AWS) Clients() *cloud.Clients {
	return &cloud.Clients{IAM: a.IAM, Redshift: a.Redshift, EC2: a.EC2, S3: a.S3}
}

// FakeIAM stores roles by name and attached policies by "role|policy".
type FakeIAM struct {
	Roles    map[string]string
	Attached map[string]bool
}

func (f *FakeIAM) GetRole(_ context.Context, in *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	arn, ok := f.Roles[aws.ToString(in.RoleName)]
	if !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: aws.String("role not found")}
	}

	return &iam.GetRoleOutput{Role: &iamtypes.Role{Arn: aws.String(arn), RoleName: in.RoleName}}, nil
}

func (f *FakeIAM) CreateRole(_ context.Context, in *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	name := aws.ToString(in.RoleName)
	if _, ok := f.Roles[name]; ok {
		return nil, &iamtypes.EntityAlreadyExistsException{Message: aws.String("role exists")}
	}

	arn := "arn:aws:iam::123456789012:role/" + name
	f.Roles[name] = arn
	return &iam.CreateRoleOutput{Role: &iamtypes.Role{Arn: aws.String(arn), RoleName: in.RoleName}}, nil
}

func (f *FakeIAM) DeleteRole(_ context.Context, in *iam.DeleteRoleInput, _ ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	name := aws.ToString(in.RoleName)
	if _, ok := f.Roles[name]; !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: aws.String("role not found")}
	}

	delete(f.Roles, name)
	return &iam.DeleteRoleOutput{}, nil
}

func (f *FakeIAM) AttachRolePolicy(_ context.Context, in *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	f.Attached[aws.ToString(in.RoleName)+"|"+aws.ToString(in.PolicyArn)] = true
	return &iam.AttachRolePolicyOutput{}, nil
}

func (f *FakeIAM) DetachRolePolicy(_ context.Context, in *iam.DetachRolePolicyInput, _ ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	key := aws.ToString(in.RoleName) + "|" + aws.ToString(in.PolicyArn)
	if !f.Attached[key] {
		return nil, &iamtypes.NoSuchEntityException{Message: aws.String("policy not attached")}
	}

	delete(f.Attached, key)
	return &iam.DetachRolePolicyOutput{}, nil
}

// FakeRedshift holds at most one cluster, which is available as soon as it's created
// unless Status says otherwise.
type FakeRedshift struct {
	Cluster *redshift.CreateClusterInput
	Status  string
}

func (f *FakeRedshift) CreateCluster(_ context.Context, in *redshift.CreateClusterInput, _ ...func(*redshift.Options)) (*redshift.CreateClusterOutput, error) {
	if f.Cluster != nil {
		return nil, &rstypes.ClusterAlreadyExistsFault{Message: aws.String("cluster exists")}
	}

	f.Cluster = in
	return &redshift.CreateClusterOutput{}, nil
}

func (f *FakeRedshift) DescribeClusters(_ context.Context, _ *redshift.DescribeClustersInput, _ ...func(*redshift.Options)) (*redshift.DescribeClustersOutput, error) {
	if f.Cluster == nil {
		return nil, &rstypes.ClusterNotFoundFault{Message: aws.String("cluster not found")}
	}

	status := f.Status
	if status == "" {
		status = "available"
	}

	cluster := rstypes.Cluster{
		ClusterIdentifier: f.Cluster.ClusterIdentifier,
		ClusterStatus:     aws.String(status),
		VpcId:             aws.String("vpc-123"),
	}

	for _, arn := range f.Cluster.IamRoles {
		cluster.IamRoles = append(cluster.IamRoles, rstypes.ClusterIamRole{IamRoleArn: aws.String(arn)})
	}

	if status == "available" {
		cluster.Endpoint = &rstypes.Endpoint{
			Address: aws.String(ClusterAddress),
			Port:    f.Cluster.Port,
		}
	}

	return &redshift.DescribeClustersOutput{Clusters: []rstypes.Cluster{cluster}}, nil
}

func (f *FakeRedshift) DeleteCluster(_ context.Context, _ *redshift.DeleteClusterInput, _ ...func(*redshift.Options)) (*redshift.DeleteClusterOutput, error) {
	if f.Cluster == nil {
		return nil, &rstypes.ClusterNotFoundFault{Message: aws.String("cluster not found")}
	}

	f.Cluster = nil
	f.Status = ""
	return &redshift.DeleteClusterOutput{}, nil
}

// FakeEC2 records ingress rules by "group|port|cidr". Clusters created by FakeRedshift
// have no security groups, so the VPC's default group is used.
type FakeEC2 struct {
	Rules map[string]bool
}

func (f *FakeEC2) DescribeSecurityGroups(_ context.Context, _ *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	return &ec2.DescribeSecurityGroupsOutput{
		SecurityGroups: []ec2types.SecurityGroup{
			{GroupId: aws.String("sg-default"), GroupName: aws.String("default")},
		},
	}, nil
}

func (f *FakeEC2) AuthorizeSecurityGroupIngress(_ context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, _ ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
	perm := in.IpPermissions[0]
	key := fmt.Sprintf("%s|%d|%s", aws.ToString(in.GroupId), aws.ToInt32(perm.FromPort), aws.ToString(perm.IpRanges[0].CidrIp))
	if f.Rules[key] {
		return nil, &smithy.GenericAPIError{Code: "InvalidPermission.Duplicate", Message: "rule exists"}
	}

	f.Rules[key] = true
	return &ec2.AuthorizeSecurityGroupIngressOutput{}, nil
}

// FakeS3 serves Objects (bucket -> key -> body) from a single page.
type FakeS3 struct {
	Objects map[string]map[string]string
}

func (f *FakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	bucket, ok := f.Objects[aws.ToString(in.Bucket)]
	if !ok {
		return nil, &s3types.NoSuchBucket{Message: aws.String("no such bucket")}
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, key := range sortedKeys(bucket) {
		if !strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			continue
		}

		out.Contents = append(out.Contents, s3types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(bucket[key]))),
			LastModified: aws.Time(time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC)),
		})
	}

	return out, nil
}

func (f *FakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.Objects[aws.ToString(in.Bucket)][aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("no such key")}
	}

	total := len(body)
	start, end := 0, total-1
	if in.Range != nil {
		_, _ = fmt.Sscanf(aws.ToString(in.Range), "bytes=%d-%d", &start, &end)
		end = min(end, total-1)
	}

	part := body[start : end+1]
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(part)),
		ContentLength: aws.Int64(int64(len(part))),
		ContentRange:  aws.String(fmt.Sprintf("bytes %d-%d/%d", start, end, total)),
	}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)
	return keys
}

var (
	_ cloud.IAMAPI      = (*FakeIAM)(nil)
	_ cloud.RedshiftAPI = (*FakeRedshift)(nil)
	_ cloud.EC2API      = (*FakeEC2)(nil)
	_ cloud.S3API       = (*FakeS3)(nil)
)
