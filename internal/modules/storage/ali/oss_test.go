package ali

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/reusedev/draw-cli/config"
	"github.com/reusedev/draw-cli/internal/modules/storage"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *OssClient {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewOSS(config.Storage{
		AccessKeyId:     "ak",
		AccessKeySecret: "sk",
		Endpoint:        srv.URL,
		Region:          "cn-hangzhou",
		Bucket:          "draw",
		Directory:       "cli/",
	})
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	err := classify(&oss.ServiceError{StatusCode: http.StatusForbidden, Code: "AccessDenied"})
	require.ErrorIs(t, err, storage.ErrAuth)

	err = classify(&oss.ServiceError{StatusCode: http.StatusBadRequest, Code: "SignatureDoesNotMatch"})
	require.ErrorIs(t, err, storage.ErrAuth)

	err = classify(&oss.ServiceError{StatusCode: http.StatusInternalServerError, Code: "InternalError"})
	require.ErrorIs(t, err, storage.ErrHTTP)

	plain := errors.New("dial tcp: i/o timeout")
	require.Equal(t, plain, classify(plain))
}

func TestContentDisposition(t *testing.T) {
	cases := map[string]string{
		"plain":     "100-m-512x512-hd-0.png",
		"quote":     `a "red" fox.png`,
		"newline":   "a fox\nin snow.png",
		"non-ascii": "狐狸.png",
	}
	for name, key := range cases {
		t.Run(name, func(t *testing.T) {
			v := contentDisposition("cli/" + key)
			require.NotContains(t, v, "\n")
			disposition, params, err := mime.ParseMediaType(v)
			require.NoError(t, err)
			require.Equal(t, "inline", disposition)
			require.Equal(t, key, params["filename"])
		})
	}
}

func TestPutObjectMissingCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent without credentials")
	}))
	defer srv.Close()
	c, err := NewOSS(config.Storage{Endpoint: srv.URL, Region: "cn-hangzhou", Bucket: "draw"})
	require.NoError(t, err)

	err = c.PutObject(context.Background(), "a.png", []byte("x"), "image/png")
	require.ErrorIs(t, err, storage.ErrAuth)
	require.Equal(t, "auth", storage.Reason(err))
}

func TestAuthProvider(t *testing.T) {
	failing := authProvider{credentials.CredentialsProviderFunc(func(context.Context) (credentials.Credentials, error) {
		return credentials.Credentials{}, errors.New("fetch sts token: timeout")
	})}
	_, err := failing.GetCredentials(context.Background())
	require.ErrorIs(t, err, storage.ErrAuth)

	ok := authProvider{credentials.NewStaticCredentialsProvider("ak", "sk", "")}
	cred, err := ok.GetCredentials(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ak", cred.AccessKeyID)
}

func TestFullPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	require.Equal(t, "cli/a.png", c.fullPath("a.png"))
}

func TestPresignURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	raw, err := c.PresignURL(context.Background(), "a.png", 10*time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(u.Path, "cli/a.png"))
}
