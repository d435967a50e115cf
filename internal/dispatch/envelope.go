package dispatch

import (
	"encoding/json"
	"math/big"
	"strings"
)

// Sentinel contents written when no payload was computed.
var (
	NamedSentinel   = strings.Repeat("O", 32)
	GenericSentinel = strings.Repeat("A", 32)
)

// Envelope renders {"result": <result>, "error": null} with the exact spacing
// downstream stages compare against. result must already be JSON.
func Envelope(result string) []byte {
	var sb strings.Builder
	sb.WriteString(`{"result": `)
	sb.WriteString(result)
	sb.WriteString(`, "error": null}`)
	return []byte(sb.String())
}

// NamedContent is the body of <name>_data.json.
func NamedContent(payload *big.Int) []byte {
	if payload == nil {
		quoted, _ := json.Marshal(NamedSentinel)
		return Envelope(string(quoted))
	}
	return Envelope(payload.String())
}

// GenericContent is the body of the --output file.
func GenericContent(payload *big.Int) []byte {
	if payload == nil {
		return []byte(GenericSentinel)
	}
	return Envelope(payload.String())
}
