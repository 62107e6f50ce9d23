package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Config は、Gemini クライアントの接続設定です。
// APIKey があれば Gemini API を、なければ Vertex AI（Project + Location）を使います。
type Config struct {
	APIKey   string
	Project  string
	Location string
	Model    string
}

func NewGemini(ctx context.Context, cfg Config) *Gemini {
	clientConfig := &genai.ClientConfig{}
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
		clientConfig.Backend = genai.BackendGeminiAPI
	} else {
		clientConfig.Project = cfg.Project
		clientConfig.Location = cfg.Location
		clientConfig.Backend = genai.BackendVertexAI
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		panic(fmt.Errorf("llm.NewGemini: %w", err))
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
	}
}

type Gemini struct {
	client *genai.Client
	model  string
}

// Generate は、組み立て済みのプロンプト1つを渡して応答テキストを受け取ります。
// セーフティ設定は全カテゴリで最も許容的な値に固定します。
// ロールプレイの応答が既定のしきい値でブロックされやすいためです。
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}

	cfg := &genai.GenerateContentConfig{
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("llm.Gemini.Generate: %w", err)
	}

	return extractText(resp), nil
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 {
		return ""
	}
	// 最も確度が高い候補のテキスト部分のみ
	for _, p := range res.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text
		}
	}
	// 念のため他候補も走査
	for _, c := range res.Candidates {
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

var _ LLM = &Gemini{}
