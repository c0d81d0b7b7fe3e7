package chrometrace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode renders events as a JSON array followed by a newline.
// HTML escaping is off so paths like "gen/<a&b>.h" stay readable.
func Encode(events []Event) ([]byte, error) {
	if events == nil {
		events = []Event{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(events); err != nil {
		return nil, fmt.Errorf("encode trace: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes events fully before writing anything to w, so a failed
// encode never leaves a partial trace behind.
func Write(w io.Writer, events []Event) error {
	data, err := Encode(events)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}
