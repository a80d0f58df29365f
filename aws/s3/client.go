package s3

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/errors"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/aws/s3/s3types"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs"
	"github.com/input-output-hk/catalyst-forge-libs/sitedeploy/fs/billy"
)

// Client synchronizes local directories into S3 buckets.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem

	logger   *slog.Logger
	hashFunc s3types.HashFunc
}

// New creates a new S3 client with the provided options.
// Without WithAWSConfig it loads AWS credentials using the default credential chain.
//
// Example:
//
//	client, err := s3.New(
//	    s3.WithRegion("us-west-2"),
//	    s3.WithEndpoint("http://localhost:4566"),
//	    s3.WithForcePathStyle(true),
//	)
func New(opts ...s3types.Option) (*Client, error) {
	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var err error
		cfg, err = config.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var s3Opts []func(*s3.Options)
	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if clientCfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(clientCfg.Endpoint)
		})
	}

	return newClient(s3.NewFromConfig(cfg, s3Opts...), clientCfg), nil
}

// NewWithClient creates a new S3 client with a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...s3types.Option) *Client {
	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}
	return newClient(s3Client, clientCfg)
}

func newClient(s3Client s3api.S3API, clientCfg *s3types.ClientConfig) *Client {
	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		filesystem = billy.NewOSFS()
	}

	logger := clientCfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		s3Client: s3Client,
		fs:       filesystem,
		logger:   logger,
		hashFunc: clientCfg.HashFunc,
	}
}
