package brew

import "context"

// Scene は、会話の舞台です。
type Scene struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	ImageURL      string `yaml:"imageUrl"`
	MaxCharacters int    `yaml:"maxCharacters"`
}

// Character は、AIが演じる登場人物の全プロフィールです。
// この情報は、LLMに渡すプロンプトのベースとなります。
type Character struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	AvatarURL         string `yaml:"avatarUrl"`
	IntroText         string `yaml:"introText"`
	DialogueStyle     string `yaml:"dialogueStyle"`
	Motivations       string `yaml:"motivations"`
	Background        string `yaml:"background"`
	PersonalityTraits string `yaml:"personalityTraits"`
	Fears             string `yaml:"fears"`
}

// Mod は、プロンプトに注入して物語の方向性を変える任意の修飾要素です。
type Mod struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Ticker      string `yaml:"ticker"`
}

// Brew は、ユーザーが組み上げた1つのチャットセッションの構成です。
// 舞台1つ、キャラクター1人以上、Mod 0個以上からなります。
// 会話オーケストレーションからは読み取り専用です。
type Brew struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Scene      *Scene       `yaml:"scene"`
	Characters []*Character `yaml:"characters"`
	Mods       []*Mod       `yaml:"mods"`
}

// CharacterByName は、名前が一致するキャラクターを返します。
func (b *Brew) CharacterByName(name string) (*Character, bool) {
	for _, c := range b.Characters {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Source は、Brew の定義を提供するデータソースのインターフェースです。
// 実装は、埋め込みYAMLの Pool と、ホスト型バックエンドの catalog.Postgres です。
type Source interface {
	// Brew は、ID が一致する Brew を返します。
	Brew(ctx context.Context, id string) (*Brew, error)

	// Brews は、利用可能なすべての Brew を返します。
	Brews(ctx context.Context) ([]*Brew, error)
}
