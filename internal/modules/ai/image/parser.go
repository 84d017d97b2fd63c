package image

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

type Parser interface {
	Parse(resp *http.Response) (*GenerationResult, error)
}

type GenerationParser struct{}

func (GenerationParser) Parse(resp *http.Response) (*GenerationResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, DetectError(resp.StatusCode, body)
	}
	ret := &GenerationResult{}
	if err = jsoniter.Unmarshal(body, ret); err != nil {
		return nil, fmt.Errorf("unmarshal generation response: %w", err)
	}
	ret.StatusCode = resp.StatusCode
	if ret.Error != nil {
		ret.Error.StatusCode = resp.StatusCode
		return nil, ret.Error
	}
	return ret, nil
}

// DetectError turns a failed response body into an *APIError. Bodies that are
// not the usual {"error":{...}} envelope are kept verbatim as the message.
func DetectError(statusCode int, body []byte) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := jsoniter.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = statusCode
		return envelope.Error
	}
	return &APIError{Message: strings.TrimSpace(string(body)), StatusCode: statusCode}
}
