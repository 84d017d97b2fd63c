package image

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

func TestRequesterGenerate(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	var (
		method, path, auth string
		body               []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, auth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1700000000,"data":[{"b64_json":"`+base64.StdEncoding.EncodeToString(png)+`"},null]}`)
	}))
	defer srv.Close()

	r := NewRequester(srv.URL+"/v1/", "sk-test", time.Second*5)
	ret, err := r.Generate(context.Background(), &GenerationRequest{
		Prompt:         "a red fox",
		ResponseFormat: "b64_json",
		Model:          "dall-e-3",
		Size:           "512x512",
		N:              2,
		Quality:        "hd",
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "/v1/images/generations", path)
	require.Equal(t, "Bearer sk-test", auth)
	var got GenerationRequest
	require.NoError(t, jsoniter.Unmarshal(body, &got))
	require.Equal(t, GenerationRequest{
		Prompt:         "a red fox",
		ResponseFormat: "b64_json",
		Model:          "dall-e-3",
		Size:           "512x512",
		N:              2,
		Quality:        "hd",
	}, got)
	require.Equal(t, int64(1700000000), ret.Created)
	require.Len(t, ret.Data, 2)
	require.Nil(t, ret.Data[1])
	require.True(t, ret.Data[1].Empty())
	b, err := ret.Data[0].Decode()
	require.NoError(t, err)
	require.Equal(t, png, b)
}

func TestRequesterGenerateError(t *testing.T) {
	t.Run("openai error envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"size is invalid","type":"invalid_request_error"}}`)
		}))
		defer srv.Close()

		_, err := NewRequester(srv.URL, "k", time.Second).Generate(context.Background(), &GenerationRequest{N: 1})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "size is invalid", apiErr.Message)
	})

	t.Run("plain text body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down\n")
		}))
		defer srv.Close()

		_, err := NewRequester(srv.URL, "k", time.Second).Generate(context.Background(), &GenerationRequest{N: 1})
		require.EqualError(t, err, "image backend returned status 502: upstream down")
	})
}

func TestGenerationResultEmpty(t *testing.T) {
	var nilResult *GenerationResult
	require.True(t, nilResult.Empty())
	require.True(t, (&GenerationResult{}).Empty())
	require.False(t, (&GenerationResult{Data: []*ImagePayload{nil}}).Empty())
}

func TestPayloadDecode(t *testing.T) {
	_, err := (&ImagePayload{}).Decode()
	require.ErrorIs(t, err, ErrEmptyPayload)

	_, err = (&ImagePayload{B64JSON: "not base64!"}).Decode()
	require.Error(t, err)
}
