package portrait

import (
	"encoding/json"
	"fmt"

	"github.com/arcanaland/tavernkeep/internal/card"
)

// Keys of the character schema written to disk.
const (
	KeyShortDescription = "short_description"
	KeyCharName         = "char_name"
	KeyCharPersona      = "char_persona"
	KeyWorldScenario    = "world_scenario"
	KeyCharGreeting     = "char_greeting"
	KeyExampleDialogue  = "example_dialogue"
)

// SchemaKeys lists every key Remap guarantees in its output.
var SchemaKeys = []string{
	KeyShortDescription,
	KeyCharName,
	KeyCharPersona,
	KeyWorldScenario,
	KeyCharGreeting,
	KeyExampleDialogue,
}

var renames = []struct {
	from, to string
	required bool
}{
	{"personality", KeyShortDescription, false},
	{"name", KeyCharName, true},
	{"description", KeyCharPersona, true},
	{"scenario", KeyWorldScenario, false},
	{"first_mes", KeyCharGreeting, false},
	{"mes_example", KeyExampleDialogue, false},
}

var emptyString = json.RawMessage(`""`)

// Remap renames the payload keys into the character schema in place. An
// absent optional key becomes an empty string. A payload without name or
// description is rejected with card.ErrCorruptPayload and left unchanged.
func Remap(p Payload) error {
	for _, r := range renames {
		if _, ok := p[r.from]; r.required && !ok {
			return fmt.Errorf("%w: payload has no %q field", card.ErrCorruptPayload, r.from)
		}
	}
	for _, r := range renames {
		v, ok := p[r.from]
		if !ok {
			v = emptyString
		}
		delete(p, r.from)
		p[r.to] = v
	}
	return nil
}
