package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"jaspire-api/internal/logger"
)

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc *secretsmanager.Client
}

// NewSecretsManagerClient creates and initializes a new Secrets Manager client.
// It uses the default AWS configuration chain (environment variables, shared config, IAM role).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &SecretsManagerClient{svc: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetSecretString fetches a secret string using an ARN held in secretArnEnvVar.
// If the ARN variable is unset or the fetch fails, it falls back to reading the
// value directly from fallbackEnvVar. Secrets stored as a single-key JSON object
// are unwrapped to the value of that key.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error) {
	secretArn := os.Getenv(secretArnEnvVar)

	if secretArn != "" {
		input := &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		}

		result, err := c.svc.GetSecretValue(ctx, input)
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			fetched := *result.SecretString

			var secretJSON map[string]string
			if jsonErr := json.Unmarshal([]byte(fetched), &secretJSON); jsonErr == nil && len(secretJSON) == 1 {
				for _, value := range secretJSON {
					return value, nil
				}
			}

			return fetched, nil
		}

		logger.Warn("Failed to fetch secret from Secrets Manager, falling back to environment variable",
			zap.String("secretArn", secretArn),
			zap.String("fallbackEnvVar", fallbackEnvVar),
			zap.Error(err))
	}

	fallback := os.Getenv(fallbackEnvVar)
	if fallback == "" {
		return "", fmt.Errorf("secret not available via %s or %s", secretArnEnvVar, fallbackEnvVar)
	}

	return fallback, nil
}
