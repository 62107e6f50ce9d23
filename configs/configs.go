// Package configs は、バイナリに埋め込む静的データを保持します。
package configs

import _ "embed"

// Brews は、既定の Brew カタログ（YAML）です。
//
//go:embed brews.yaml
var Brews []byte
