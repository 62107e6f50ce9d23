// Package studio は、キャラクターや舞台を作るときの補助機能を提供します。
// テキストからのアバター・背景画像の生成と、舞台のネタ出しです。
package studio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const stabilityEndpoint = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"

const defaultNegativePrompt = "blurry, bad quality, distorted, disfigured, low resolution"

// CreateType は、生成する画像の用途です。用途ごとに寸法と補助プロンプトが変わります。
type CreateType string

const (
	CreateCharacter CreateType = "character"
	CreateScene     CreateType = "scene"
)

// ImageClient は、Stability の text-to-image API のクライアントです。
type ImageClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewImageClient は、新しい ImageClient を生成します。
func NewImageClient(apiKey string) *ImageClient {
	return &ImageClient{
		apiKey:     apiKey,
		endpoint:   stabilityEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetTestEndpoint points the client at a test server instead of the real API.
func (c *ImageClient) SetTestEndpoint(url string) {
	c.endpoint = url
}

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type generationRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    int          `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Steps       int          `json:"steps"`
	Samples     int          `json:"samples"`
}

type generationResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
	Message string `json:"message"`
}

// Generate は、説明文から用途に応じた画像を1枚生成し、PNGのバイト列を返します。
func (c *ImageClient) Generate(ctx context.Context, description string, t CreateType) ([]byte, error) {
	width, height := imageDimensions(t)

	reqBody := generationRequest{
		TextPrompts: []textPrompt{
			{Text: fmt.Sprintf("%s %s", description, promptAdditions(t)), Weight: 1},
			{Text: defaultNegativePrompt, Weight: -1},
		},
		CfgScale: 7,
		Height:   height,
		Width:    width,
		Steps:    30,
		Samples:  1,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("studio.ImageClient.Generate: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("studio.ImageClient.Generate: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("studio.ImageClient.Generate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("studio.ImageClient.Generate: %w", err)
	}

	var parsed generationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("studio.ImageClient.Generate: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Message != "" {
			return nil, fmt.Errorf("studio.ImageClient.Generate: %s", parsed.Message)
		}
		return nil, fmt.Errorf("studio.ImageClient.Generate: unexpected status %d", resp.StatusCode)
	}

	if len(parsed.Artifacts) == 0 {
		return nil, fmt.Errorf("studio.ImageClient.Generate: no image generated")
	}

	png, err := base64.StdEncoding.DecodeString(parsed.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("studio.ImageClient.Generate: %w", err)
	}
	return png, nil
}

// imageDimensions は、用途ごとの画像寸法を返します。
func imageDimensions(t CreateType) (width, height int) {
	switch t {
	case CreateScene:
		return 1792, 1024
	default:
		return 1024, 1024
	}
}

// promptAdditions は、用途ごとにプロンプトへ足す定型句を返します。
func promptAdditions(t CreateType) string {
	switch t {
	case CreateScene:
		return "wide landscape shot, environment art, concept art, trending on artstation"
	default:
		return "portrait, detailed face, high quality, trending on artstation"
	}
}
