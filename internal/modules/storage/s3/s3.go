package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/reusedev/draw-cli/config"
	"github.com/reusedev/draw-cli/internal/modules/storage"
)

const defaultRegion = "us-east-1"

var authErrorCodes = map[string]bool{
	"InvalidAccessKeyId":           true,
	"SignatureDoesNotMatch":        true,
	"AccessDenied":                 true,
	"ExpiredToken":                 true,
	"InvalidToken":                 true,
	"AuthorizationHeaderMalformed": true,
}

type Client struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New builds a client for AWS S3 or an S3-compatible service. With a custom
// endpoint, path-style addressing is used. Empty credentials fall back to the
// SDK's default chain.
func New(ctx context.Context, cfg config.Storage) (*Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyId != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyId, cfg.AccessKeySecret, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newFromConfig(awsCfg, cfg), nil
}

func newFromConfig(awsCfg aws.Config, cfg config.Storage) *Client {
	if awsCfg.Credentials != nil {
		awsCfg.Credentials = authProvider{awsCfg.Credentials}
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// many S3-compatible services reject the default CRC32 trailer
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}
}

// authProvider marks credential lookup failures with storage.ErrAuth. The SDK
// resolves credentials before sending, so these never carry a response.
type authProvider struct {
	aws.CredentialsProvider
}

func (p authProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	creds, err := p.CredentialsProvider.Retrieve(ctx)
	if err != nil {
		return creds, fmt.Errorf("%w: %w", storage.ErrAuth, err)
	}
	return creds, nil
}

func (p authProvider) IsCredentialsProvider(target aws.CredentialsProvider) bool {
	return aws.IsCredentialsProvider(p.CredentialsProvider, target)
}

func (c *Client) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) PresignURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func classify(err error) error {
	if errors.Is(err, storage.ErrAuth) {
		return err
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && authErrorCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %w", storage.ErrAuth, err)
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		if respErr.HTTPStatusCode() == 401 || respErr.HTTPStatusCode() == 403 {
			return fmt.Errorf("%w: %w", storage.ErrAuth, err)
		}
		return fmt.Errorf("%w: %w", storage.ErrHTTP, err)
	}
	return err
}
