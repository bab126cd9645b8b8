package handlers

import (
	"encoding/json"
	"fmt"
)

// decodeArg converts a decoded socket.io event payload into a typed
// struct by round-tripping through JSON. The parser hands us
// map[string]interface{} values, so this is the cheapest way to share
// the model structs with the HTTP layer.
func decodeArg(arg interface{}, out interface{}) error {
	data, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("error re-encoding event payload: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding event payload: %v", err)
	}
	return nil
}

// firstArg returns the leading event argument or an error when the
// client sent none.
func firstArg(args []interface{}) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("missing event payload")
	}
	return args[0], nil
}
