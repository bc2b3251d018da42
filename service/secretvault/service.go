// Package secretvault retrieves registry credentials from AWS Secrets Manager.
package secretvault

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/opensearch-devops/osb-ci/shared/masker"
)

// NewService creates a new secret vault service.
func NewService(cfg aws.Config) Service {
	return &service{
		client: secretsmanager.NewFromConfig(cfg),
	}
}

func (s *service) GetSecretString(ctx context.Context, secretID string) (string, error) {
	if secretID == "" {
		return "", fmt.Errorf("secret id is required")
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to retrieve secret %s: %w", secretID, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", fmt.Errorf("secret %s has no string value", secretID)
	}

	value := *out.SecretString
	// Masked before any caller can log it.
	masker.Register(value)
	return value, nil
}
