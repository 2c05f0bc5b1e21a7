// Package baseline embeds the built-in ACM edition.
package baseline

import _ "embed"

var (
	//go:embed rates.json
	Rates []byte

	//go:embed documents.json
	Documents []byte

	//go:embed edition.json
	Edition []byte
)
