// Package awsauth provides AWS configuration loading and role assumption.
package awsauth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// NewService creates a new AWS auth service.
func NewService() Service {
	return &service{}
}

func (s *service) GetAWSCfg(ctx context.Context, region, profile string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	// Only set region if explicitly provided; otherwise use SDK defaults
	// (AWS_REGION, AWS_DEFAULT_REGION env vars, or ~/.aws/config)
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return cfg, nil
}

func (s *service) AssumeReleaseRole(ctx context.Context, base aws.Config, roleARN, sessionName string) (aws.Config, error) {
	if roleARN == "" {
		return aws.Config{}, fmt.Errorf("release role ARN is not configured")
	}

	stsClient := sts.NewFromConfig(base)
	provider := stscreds.NewAssumeRoleProvider(stsClient, roleARN, func(o *stscreds.AssumeRoleOptions) {
		if sessionName != "" {
			o.RoleSessionName = sessionName
		}
	})

	assumed := base.Copy()
	assumed.Credentials = aws.NewCredentialsCache(provider)

	// Force credential retrieval so a denied assumption fails the
	// pipeline here rather than mid-publish.
	if _, err := assumed.Credentials.Retrieve(ctx); err != nil {
		return aws.Config{}, fmt.Errorf("failed to assume release role %s: %w", roleARN, err)
	}
	return assumed, nil
}
