package importer

import (
	"encoding/json"
	"fmt"
)

// event is one step of the streaming walk over a JSON document, named after
// ijson's event vocabulary: start_map/end_map bracket an object, start_array/
// end_array bracket a list, and value carries a scalar (string, float64,
// bool, or nil) found at path. Dict keys are folded into the child path
// rather than surfaced as their own event, since nothing downstream needs
// to see a bare map_key.
type event struct {
	path  string
	kind  string // "start_map", "end_map", "start_array", "end_array", "value"
	value any
}

type eventHandler func(event) error

// walkTokens streams dec depth-first, emitting one event per structural
// transition. path starts empty at the document root and grows by
// ".<key>" for object fields or ".item" for every array element, mirroring
// ijson's dotted-path prefixes (e.g. "conversations.item.MessageList.item.from").
func walkTokens(dec *json.Decoder, path string, handle eventHandler) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			if err := handle(event{path: path, kind: "start_map"}); err != nil {
				return err
			}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("importer: object key token is not a string: %v", keyTok)
				}
				if err := walkTokens(dec, joinPath(path, key), handle); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return err
			}
			return handle(event{path: path, kind: "end_map"})
		case '[':
			if err := handle(event{path: path, kind: "start_array"}); err != nil {
				return err
			}
			itemPath := joinPath(path, "item")
			for dec.More() {
				if err := walkTokens(dec, itemPath, handle); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return err
			}
			return handle(event{path: path, kind: "end_array"})
		}
		return nil
	default:
		return handle(event{path: path, kind: "value", value: v})
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
