package response

import (
	"bytes"
	"encoding/json"

	"github.com/shandysiswandi/gocle/pkg/strcase"
)

// Encode serializes the envelope to its wire format. Every mapping key, in
// meta as well as in data, is rewritten to camelCase.
func Encode(env *Envelope) ([]byte, error) {
	if env == nil {
		env = InternalError()
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}

	return json.Marshal(strcase.CamelizeKeys(tree))
}
