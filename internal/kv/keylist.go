package kv

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DecodeKeyList normalizes a legacy "list keys" payload into a flat list of
// key names. The legacy store has been observed to answer in three shapes:
//
//	["a", "b"]
//	{"keys": ["a", "b"]}
//	{"a": ..., "b": ...}
//
// Treat the variance as an external API quirk to defend against, not a
// domain concept.
func DecodeKeyList(data []byte) ([]string, error) {
	var asArray []string
	if err := json.Unmarshal(data, &asArray); err == nil {
		return asArray, nil
	}

	var withKeys struct {
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(data, &withKeys); err == nil && withKeys.Keys != nil {
		return withKeys.Keys, nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(data, &asObject); err == nil {
		keys := make([]string, 0, len(asObject))
		for k := range asObject {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, nil
	}

	return nil, fmt.Errorf("unrecognized key list payload")
}
