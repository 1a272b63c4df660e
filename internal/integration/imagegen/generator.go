// Package imagegen 调用文生图服务，返回原始图片字节。
package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"astrapix-server/internal/config"

	"github.com/sashabaranov/go-openai"
)

var ErrEmptyResult = errors.New("image provider returned no data")

// Generator 根据提示词生成一张图片。
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

type OpenAIGenerator struct {
	client *openai.Client
	model  string
	size   string
}

func NewOpenAIGenerator(cfg config.ImageGenConfig) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	model := cfg.Model
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	size := cfg.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		size:   size,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		Size:           g.size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResult
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyResult
	}
	return data, nil
}
