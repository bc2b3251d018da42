package awsauth

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

type service struct{}

// Service loads AWS configuration and performs the release role assumption.
type Service interface {
	GetAWSCfg(ctx context.Context, region, profile string) (aws.Config, error)
	// AssumeReleaseRole exchanges the base credentials for temporary
	// credentials of the release role via STS.
	AssumeReleaseRole(ctx context.Context, base aws.Config, roleARN, sessionName string) (aws.Config, error)
}
