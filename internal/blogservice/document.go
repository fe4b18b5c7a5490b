package blogservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrMalformedJSON = errors.New("malformed JSON document")

// Document holds a jsonb column as stored. A nil Document is SQL NULL and renders as null.
type Document json.RawMessage

func (d *Document) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append(Document(nil), v...)
	case string:
		*d = Document(v)
	default:
		return fmt.Errorf("cannot scan %T into Document", src)
	}

	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// CanonicalJSON turns a faq_json or schema_json input into the text stored in the
// column. Null, absent and empty-string input yield nil. A JSON string is parsed
// as a serialized document; any other JSON value is serialized as is.
func CanonicalJSON(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	doc := []byte(raw)
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, ErrMalformedJSON
		}
		if text == "" {
			return nil, nil
		}
		doc = []byte(text)
	}

	canonical, err := reserialize(doc)
	if err != nil {
		return nil, err
	}

	return &canonical, nil
}

func reserialize(doc []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", ErrMalformedJSON
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", ErrMalformedJSON
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", ErrMalformedJSON
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
