package format

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mqttlog/mqttlog-go/pkg/packet"
)

// field is one rendered property. Text and JSON encoders walk the same
// field list, so every text fragment has exactly one JSON key.
type field struct {
	// key is the JSON key. Empty for text-only fields.
	key string

	// label is the text prefix including its separator, e.g. "QoS: ".
	// Empty for JSON-only fields.
	label string

	// value is the rendered text value, including quotes.
	value string

	// json is the JSON value. nil encodes as null.
	json any
}

func (f field) text() string {
	return f.label + f.value
}

// nulled returns f with its value replaced by the sentinel.
func (f field) nulled() field {
	f.json = nil
	if f.label != "" {
		f.value = nullValue
	}
	return f
}

// object is an ordered field list. It encodes as a JSON object with keys
// in list order.
type object []field

// text joins the text fragments with ", ".
func (o object) text() string {
	parts := make([]string, 0, len(o))
	for _, f := range o {
		if f.label == "" {
			continue
		}
		parts = append(parts, f.text())
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON implements json.Marshaler.
func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	for _, f := range o {
		if f.key == "" {
			continue
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		if err := writeJSON(&buf, f.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, f.json); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON appends v without HTML escaping and without a trailing newline.
func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

type unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func quote(s string) string {
	return "'" + s + "'"
}

func str(key, label, v string) field {
	return field{key: key, label: label + ": ", value: quote(v), json: v}
}

func optStr(key, label string, v *string) field {
	if v == nil {
		return field{key: key, label: label + ": ", value: nullValue}
	}
	return str(key, label, *v)
}

func flag(key, label string, v bool) field {
	return field{key: key, label: label + ": ", value: quote(strconv.FormatBool(v)), json: v}
}

func number[T unsigned](key, label string, v T) field {
	return field{key: key, label: label + ": ", value: quote(strconv.FormatUint(uint64(v), 10)), json: uint64(v)}
}

func optNumber[T unsigned](key, label string, v *T) field {
	if v == nil {
		return field{key: key, label: label + ": ", value: nullValue}
	}
	return number(key, label, *v)
}

// jsonOnly carries a value that the text form shows elsewhere.
func jsonOnly(key string, v any) field {
	return field{key: key, json: v}
}

// binary renders b as text when printable and as hex otherwise. The JSON
// form carries non-printable data as base64 under "<key>Base64".
// A nil slice renders as the sentinel under the plain label.
func binary(key, label string, b []byte) field {
	if b == nil {
		return field{key: key, label: label + ": ", value: nullValue}
	}
	if Printable(b) {
		return str(key, label, ToText(b))
	}
	return field{key: key + "Base64", label: label + " (Hex): ", value: quote(ToHex(b)), json: ToBase64(b)}
}

// textField renders b as UTF-8 regardless of content.
func textField(key, label string, b []byte) field {
	if b == nil {
		return field{key: key, label: label + ": ", value: nullValue}
	}
	return str(key, label, ToText(b))
}

func base64Field(key, label string, b []byte) field {
	if b == nil {
		return field{key: key, label: label + ": ", value: nullValue}
	}
	return str(key, label, ToBase64(b))
}

func reasonCode(kind packet.Kind, rc packet.ReasonCode) field {
	return str("reasonCode", "Reason Code", rc.Name(kind))
}

type userPropertyJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func userProperties(props []packet.UserProperty) field {
	f := field{key: "userProperties", label: "User Properties: ", value: userPropertiesValue(props)}
	if len(props) > 0 {
		list := make([]userPropertyJSON, len(props))
		for i, p := range props {
			list[i] = userPropertyJSON{Name: p.Name, Value: p.Value}
		}
		f.json = list
	}
	return f
}

func reasonCodes(label string, kind packet.Kind, codes []packet.ReasonCode) field {
	f := field{key: "reasonCodes", label: label + ": ", value: braceList(reasonCodeItems(kind, codes))}
	if len(codes) > 0 {
		names := make([]string, len(codes))
		for i, c := range codes {
			names[i] = c.Name(kind)
		}
		f.json = names
	}
	return f
}

// numberList renders e.g. "'[1, 2]'".
func numberList(key, label string, v []uint32) field {
	if len(v) == 0 {
		return field{key: key, label: label + ": ", value: nullValue}
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return field{key: key, label: label + ": ", value: quote("[" + strings.Join(parts, ", ") + "]"), json: v}
}
