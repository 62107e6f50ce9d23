package studio

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/mmcdole/gofeed"
)

// Idea は、新しい舞台づくりのきっかけになる、構造化された「ネタ」を表します。
// 出所（RSS、APIなど）に依存しない、汎用的な形式です。
type Idea struct {
	// Title は、ネタのタイトルや見出しです。
	Title string

	// Summary は、ネタの短い要約です。
	Summary string

	// SourceURL は、出所を示すURLです。
	SourceURL string
}

// IdeaFetcher は、外部のデータソースから []*Idea を取得するためのインターフェースです。
type IdeaFetcher interface {
	Fetch(ctx context.Context) ([]*Idea, error)
}

// RSSFetcher は IdeaFetcher インターフェースのRSS実装です。
type RSSFetcher struct {
	url   string
	limit int
}

// NewRSSFetcher は新しい RSSFetcher を生成します。
// limit は取得する記事の上限数を指定します。0以下の場合は無制限。
func NewRSSFetcher(url string, limit int) IdeaFetcher {
	return &RSSFetcher{
		url:   url,
		limit: limit,
	}
}

// Fetch は指定されたURLからRSSフィードを取得し、*Idea のスライスに変換します。
func (f *RSSFetcher) Fetch(ctx context.Context) ([]*Idea, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed from %s: %w", f.url, err)
	}

	// 公開日で降順にソートして最新のものを取得しやすくする
	sort.Slice(feed.Items, func(i, j int) bool {
		iTime := feed.Items[i].PublishedParsed
		jTime := feed.Items[j].PublishedParsed
		if iTime == nil || jTime == nil {
			return i < j
		}
		return iTime.After(*jTime)
	})

	var ideas []*Idea
	for i, item := range feed.Items {
		if f.limit > 0 && i >= f.limit {
			break
		}

		// HTMLタグを除去し、指定文字数で切り捨てる
		plainTextSummary := stripHTML(item.Description)
		truncatedSummary := truncateString(plainTextSummary, 200)

		ideas = append(ideas, &Idea{
			Title:     item.Title,
			Summary:   truncatedSummary,
			SourceURL: item.Link,
		})
	}

	return ideas, nil
}

// stripHTML は文字列からHTMLタグを削除します。
var htmlRegex = regexp.MustCompile("<[^>]*>")

func stripHTML(s string) string {
	return htmlRegex.ReplaceAllString(s, "")
}

// truncateString は文字列をrune単位で指定された長さに切り詰めます。
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return s
}
