package message

import "strings"

// ParseResponse は、生成サービスの生テキストを話者セグメントの列に変換します。
// 改行で分割し、空行を捨て、残った各行を最初のコロンで (話者, 本文) に切ります。
// コロンを含まない行は、話者が空文字列・本文が行全体のセグメントになります。
func ParseResponse(text string) []Segment {
	var segments []Segment
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		speaker, body, found := strings.Cut(line, ":")
		if !found {
			segments = append(segments, Segment{Speaker: "", Text: strings.TrimSpace(line)})
			continue
		}
		segments = append(segments, Segment{
			Speaker: strings.TrimSpace(speaker),
			Text:    strings.TrimSpace(body),
		})
	}
	return segments
}
