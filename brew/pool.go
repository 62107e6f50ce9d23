package brew

import (
	"context"
	"fmt"

	"github.com/sat8bit/brew/configs"
	"gopkg.in/yaml.v3"
)

// Pool は、埋め込みリソースから読み込んだ Brew 定義の集合です。
// バックエンド接続なしで動かすときの既定の Source です。
type Pool struct {
	Items []*Brew `yaml:"brews"`
}

// NewPool は、埋め込みYAMLから Pool を生成します。
func NewPool() (*Pool, error) {
	var p Pool
	if err := yaml.Unmarshal(configs.Brews, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedded Brews: %w", err)
	}
	return &p, nil
}

// Brew は、ID が一致する Brew を返します。
func (p *Pool) Brew(_ context.Context, id string) (*Brew, error) {
	for _, b := range p.Items {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("brew with id '%s' not found", id)
}

// Brews は、読み込まれたすべての Brew を返します。
func (p *Pool) Brews(_ context.Context) ([]*Brew, error) {
	if p == nil || len(p.Items) == 0 {
		return nil, fmt.Errorf("no brews available")
	}
	return p.Items, nil
}

// コンパイル時に Source インターフェースを実装していることを保証します。
var _ Source = (*Pool)(nil)
