package publishers

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves region and credentials; static keys win over the default chain.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds != nil {
		key := strings.TrimSpace(creds.AccessKeyID)
		secret := strings.TrimSpace(creds.SecretAccessKey)
		if key != "" && secret != "" {
			opts = append(opts, awscfg.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(key, secret, strings.TrimSpace(creds.SessionToken)),
			))
		}
	}
	return awscfg.LoadDefaultConfig(ctx, opts...)
}
