package image

import (
	"context"
	"net/http"
	"time"

	"github.com/reusedev/draw-cli/internal/modules/http_client"
	"github.com/reusedev/draw-cli/internal/modules/logs"
	"github.com/reusedev/draw-cli/tools"
)

// Requester talks to an OpenAI-compatible images API.
type Requester struct {
	baseURL string
	apiKey  string
	client  *http_client.HttpClient
	Parser  Parser
}

func NewRequester(baseURL, apiKey string, timeout time.Duration) *Requester {
	return &Requester{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  http_client.NewWithTimeout(timeout),
		Parser:  GenerationParser{},
	}
}

func (r *Requester) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResult, error) {
	req, err := r.client.NewRequest(
		http.MethodPost,
		tools.FullURL(r.baseURL, request.Path()),
		http_client.WithHeader("Authorization", "Bearer "+r.apiKey),
		http_client.WithHeader("Content-Type", "application/json"),
		http_client.WithBody(request),
		http_client.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	reqAt := time.Now()
	resp, err := r.client.Do(req)
	respAt := time.Now()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	logs.Logger.Debug().
		Str("model", request.Model).
		Str("size", request.Size).
		Int("n", request.N).
		Str("path", request.Path()).
		Int("status_code", resp.StatusCode).
		Dur("req_consume_ms", respAt.Sub(reqAt)).
		Msg("image request")
	ret, err := r.Parser.Parse(resp)
	if err != nil {
		return nil, err
	}
	ret.ReqAt = reqAt
	ret.RespAt = respAt
	return ret, nil
}
