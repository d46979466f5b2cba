package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/config"
)

// Factory creates Bedrock vision clients. It doubles as the credential
// session refresh hook: every CreateClient call re-reads the shared
// credentials file and assumes the role from scratch, so a refreshed
// client carries a brand-new session.
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new Bedrock factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient builds a Bedrock client from the profile-keyed
// credentials file, assuming the configured role when one is set.
// Missing or incomplete credentials are an error here, which makes them
// fatal at startup rather than a per-cycle failure.
func (f *Factory) CreateClient(ctx context.Context) (*BedrockClient, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(bedrockCfg.Region),
		awsconfig.WithSharedCredentialsFiles([]string{bedrockCfg.CredentialsFile}),
		awsconfig.WithSharedConfigProfile(bedrockCfg.Profile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("no credentials for profile %q in %s: %w",
			bedrockCfg.Profile, bedrockCfg.CredentialsFile, err)
	}
	if !creds.HasKeys() {
		return nil, fmt.Errorf("incomplete credentials for profile %q in %s",
			bedrockCfg.Profile, bedrockCfg.CredentialsFile)
	}

	if bedrockCfg.RoleARN != "" {
		stsClient := sts.NewFromConfig(awsCfg)
		provider := stscreds.NewAssumeRoleProvider(stsClient, bedrockCfg.RoleARN,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = "BedrockSession"
			})
		awsCfg.Credentials = aws.NewCredentialsCache(provider)
		f.logger.Info("Assuming role for Bedrock access", zap.String("role_arn", bedrockCfg.RoleARN))
	}

	runtime := bedrockruntime.NewFromConfig(awsCfg)
	return NewBedrockClient(runtime, bedrockCfg, f.cfg.GetPrompt(), f.logger), nil
}
