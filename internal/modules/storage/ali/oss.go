package ali

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/reusedev/draw-cli/config"
	"github.com/reusedev/draw-cli/internal/modules/storage"
)

type OssClient struct {
	client     *oss.Client
	bucketName string
	directory  string
}

func NewOSS(config config.Storage) (*OssClient, error) {
	credential := authProvider{credentials.NewStaticCredentialsProvider(config.AccessKeyId, config.AccessKeySecret, "")}
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credential).
		WithEndpoint(config.Endpoint).WithRegion(config.Region)
	client := oss.NewClient(cfg)
	if client == nil {
		return nil, fmt.Errorf("create oss client failed")
	}
	return &OssClient{
		client:     client,
		bucketName: config.Bucket,
		directory:  config.Directory,
	}, nil
}

func (o *OssClient) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	key = o.fullPath(key)
	request := &oss.PutObjectRequest{
		Bucket:             oss.Ptr(o.bucketName),
		Key:                oss.Ptr(key),
		Body:               bytes.NewReader(body),
		ContentType:        oss.Ptr(contentType),
		ContentDisposition: oss.Ptr(contentDisposition(key)),
	}
	_, err := o.client.PutObject(ctx, request)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (o *OssClient) PresignURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	ret, err := o.client.Presign(ctx, &oss.GetObjectRequest{Bucket: oss.Ptr(o.bucketName), Key: oss.Ptr(o.fullPath(key))}, oss.PresignExpires(expires))
	if err != nil {
		return "", err
	}
	return ret.URL, nil
}

// contentDisposition quotes or RFC 2231-encodes the name, since keys carry
// prompt text.
func contentDisposition(key string) string {
	return mime.FormatMediaType("inline", map[string]string{"filename": path.Base(key)})
}

func (o *OssClient) fullPath(key string) string {
	return o.directory + key
}

// authProvider marks missing or failing credentials with storage.ErrAuth
// before the signer rejects them with an untyped error.
type authProvider struct {
	credentials.CredentialsProvider
}

func (p authProvider) GetCredentials(ctx context.Context) (credentials.Credentials, error) {
	cred, err := p.CredentialsProvider.GetCredentials(ctx)
	if err != nil {
		return cred, fmt.Errorf("%w: %w", storage.ErrAuth, err)
	}
	if !cred.HasKeys() {
		return cred, fmt.Errorf("%w: access key id or secret is empty", storage.ErrAuth)
	}
	return cred, nil
}

func classify(err error) error {
	if errors.Is(err, storage.ErrAuth) {
		return err
	}
	var serr *oss.ServiceError
	if errors.As(err, &serr) {
		switch {
		case serr.StatusCode == http.StatusUnauthorized, serr.StatusCode == http.StatusForbidden,
			serr.Code == "InvalidAccessKeyId", serr.Code == "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %w", storage.ErrAuth, err)
		default:
			return fmt.Errorf("%w: %w", storage.ErrHTTP, err)
		}
	}
	return err
}
