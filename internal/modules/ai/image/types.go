package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// GenerationRequest is the body of an images/generations call. It is built
// fresh for every prompt and round.
type GenerationRequest struct {
	Prompt         string `json:"prompt"`
	ResponseFormat string `json:"response_format"`
	Model          string `json:"model"`
	Size           string `json:"size"`
	N              int    `json:"n"`
	Quality        string `json:"quality,omitempty"`
}

func (g *GenerationRequest) Path() string {
	return "images/generations"
}

type ImagePayload struct {
	B64JSON       string `json:"b64_json,omitempty"`
	URL           string `json:"url,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

func (p *ImagePayload) Empty() bool {
	return p == nil || p.B64JSON == ""
}

func (p *ImagePayload) Decode() ([]byte, error) {
	if p.Empty() {
		return nil, ErrEmptyPayload
	}
	b, err := base64.StdEncoding.DecodeString(p.B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode b64_json: %w", err)
	}
	return b, nil
}

// GenerationResult keeps null entries of data as nil payloads so callers can
// skip them by index.
type GenerationResult struct {
	Created    int64           `json:"created"`
	Data       []*ImagePayload `json:"data"`
	Error      *APIError       `json:"error,omitempty"`
	StatusCode int             `json:"-"`
	ReqAt      time.Time       `json:"-"`
	RespAt     time.Time       `json:"-"`
}

func (r *GenerationResult) Empty() bool {
	return r == nil || len(r.Data) == 0
}

func (r *GenerationResult) ReqConsumeMs() int64 {
	return r.RespAt.Sub(r.ReqAt).Milliseconds()
}

type APIError struct {
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Code       any    `json:"code,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("image backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("image backend returned status %d: %s", e.StatusCode, e.Message)
}

var (
	ErrEmptyResult  = errors.New("no image returned")
	ErrEmptyPayload = errors.New("image payload is empty")
)
