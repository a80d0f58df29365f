// Command sitedeploy is an AWS Lambda function that rebuilds a static site
// whenever its GitHub repository receives a push to the primary branch and
// publishes the result to S3.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	s3 "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/build"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/config"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/deploy"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/executor"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/github"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Debug)

	handler, err := newHandler(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("initialization failed", "error", err)
		os.Exit(1)
	}

	lambda.Start(handler.Handle)
}

func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// newHandler wires the pipeline. The credential is resolved once per cold start.
func newHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*deploy.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	resolver := secrets.NewResolverFromConfig(awsCfg, secrets.WithLogger(logger))
	cred, err := resolver.Resolve(ctx, cfg.GitHubAuth)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GitHub credential: %w", err)
	}

	osfs := billy.NewOSFS()

	fetcher := github.NewFetcher(
		github.WithAPIURL(cfg.GitHubAPIURL),
		github.WithBranch(cfg.PrimaryBranch),
		github.WithScratchDir(cfg.ScratchDir),
		github.WithCredential(cred),
		github.WithFilesystem(osfs),
		github.WithLogger(logger),
	)

	syncer, err := newSyncer(cfg, awsCfg, osfs, logger)
	if err != nil {
		return nil, err
	}

	return deploy.NewHandler(
		deploy.Config{PrimaryRef: cfg.PrimaryRef(), OutputDir: cfg.OutputDir},
		fetcher,
		builderSelector(cfg, osfs, logger),
		syncer,
		osfs,
		logger,
	), nil
}

func newSyncer(cfg *config.Config, awsCfg aws.Config, filesystem fs.Filesystem, logger *slog.Logger) (*s3.Client, error) {
	opts := []s3types.Option{
		s3.WithAWSConfig(&awsCfg),
		s3.WithFilesystem(filesystem),
		s3.WithLogger(logger),
	}
	if cfg.S3Endpoint != "" {
		opts = append(opts, s3.WithEndpoint(cfg.S3Endpoint), s3.WithForcePathStyle(true))
	}

	client, err := s3.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return client, nil
}

func builderSelector(cfg *config.Config, filesystem fs.Filesystem, logger *slog.Logger) deploy.BuilderSelector {
	buildCfg := build.Config{
		BlogcPath: cfg.BlogcPath,
		OutputDir: cfg.OutputDir,
		Debug:     cfg.Debug,
	}
	blogc := build.NewBlogcBuilder(executor.NewWrappedExecutor(cfg.BlogcPath), buildCfg, logger)
	fallback := build.NewMakeBuilder(executor.NewWrappedExecutor(cfg.MakePath), buildCfg, logger)

	return func(root string) (build.Builder, error) {
		return build.Select(filesystem, root, blogc, fallback)
	}
}
