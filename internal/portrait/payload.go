package portrait

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	hex "github.com/tmthrgd/go-hex"

	"github.com/arcanaland/tavernkeep/internal/card"
)

// headerLen is the size of the character-code prefix that precedes an
// EXIF UserComment value ("ASCII\0\0\0", "UNICODE\0", ...).
const headerLen = 8

// Payload is a decoded character object. Values are kept as raw JSON so
// keys the tool does not know about are written back untouched.
type Payload map[string]json.RawMessage

// DecodePayload recovers the JSON object carried by a recognized tag value.
// After the header, the value lists the payload's UTF-8 bytes as decimal
// numbers separated by commas. Any failure is reported as
// card.ErrCorruptPayload.
func DecodePayload(value []byte) (Payload, error) {
	if len(value) < headerLen {
		return nil, fmt.Errorf("%w: value is %d bytes, shorter than the %d byte header",
			card.ErrCorruptPayload, len(value), headerLen)
	}
	body := bytes.TrimRight(value[headerLen:], "\x00 \t\r\n")

	tokens := strings.Split(string(body), ",")
	hexTokens := make([]string, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d (%q) is not a decimal byte", card.ErrCorruptPayload, i, tok)
		}
		hexTokens[i] = fmt.Sprintf("%02X", n)
	}

	raw, err := decodeSpacedHex(strings.Join(hexTokens, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: assemble bytes: %w", card.ErrCorruptPayload, err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", card.ErrCorruptPayload)
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: parse json: %w", card.ErrCorruptPayload, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", card.ErrCorruptPayload)
	}
	return payload, nil
}

// decodeSpacedHex decodes space separated two-digit hex bytes.
func decodeSpacedHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.ReplaceAll(s, " ", ""))
}
