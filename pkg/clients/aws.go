package clients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/jimlawless/whereami"
)

// LoadAWSConfig загружает регион и учётные данные из стандартной цепочки AWS (env, профиль, роль).
func LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, e.Wrap(whereami.WhereAmI(), err)
	}

	return awsCfg, nil
}

// NewDynamoDBClient создаёт клиент DynamoDB; DYNAMODB_ENDPOINT перекрывает эндпоинт (DynamoDB Local).
func NewDynamoDBClient(awsCfg aws.Config, cfg *cfg.DynamoDBCfg) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
}

// SecretValueAPI — часть клиента Secrets Manager, нужная для чтения учётных данных каталога.
type SecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func NewSecretsManagerClient(awsCfg aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(awsCfg)
}

type dbSecret struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResolveDBCredentials один раз при старте подставляет логин и пароль каталога из секрета cfg.SecretARN.
// Без SecretARN конфигурация не меняется.
func ResolveDBCredentials(ctx context.Context, api SecretValueAPI, cfg *cfg.PGDBCfg) error {
	if cfg.SecretARN == "" {
		return nil
	}

	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.SecretARN),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if out.SecretString == nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("secret %s has no string value", cfg.SecretARN))
	}

	var secret dbSecret
	if err := json.Unmarshal([]byte(*out.SecretString), &secret); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if secret.Username == "" || secret.Password == "" {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("secret %s must contain username and password", cfg.SecretARN))
	}

	cfg.User = secret.Username
	cfg.Password = secret.Password

	return nil
}
