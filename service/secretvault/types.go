package secretvault

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsClientAPI is the interface for the AWS Secrets Manager client
// methods used by the service.
type SecretsClientAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type service struct {
	client SecretsClientAPI
}

// Service retrieves secrets by ID, masking each retrieved value in all
// subsequent output.
type Service interface {
	GetSecretString(ctx context.Context, secretID string) (string, error)
}
