package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Format is a scene file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for file extensions with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// DecodeError reports a scene file that could not be decoded.
type DecodeError struct {
	Path   string
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding %s scene: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("decoding %s scene %s: %v", e.Format, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and decodes the scene file at path.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	s, err := Decode(format, data)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Decode parses data in the given format. Unknown keys are rejected in
// every format.
func Decode(format Format, data []byte) (*Scene, error) {
	s := &Scene{}
	var err error
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(s)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(s); errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	return s, nil
}

// DecodeJSON parses a JSON scene.
func DecodeJSON(data []byte) (*Scene, error) {
	s, err := decodeJSON(data)
	if err != nil {
		return nil, &DecodeError{Format: FormatJSON, Err: err}
	}
	return s, nil
}

func decodeJSON(data []byte) (*Scene, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("top level must be an object")
	}

	if err := checkKeys(root, sceneKeys); err != nil {
		return nil, err
	}

	s := &Scene{}
	var err error
	if s.Width, err = jsonInt(root, "width"); err != nil {
		return nil, err
	}
	if s.Height, err = jsonInt(root, "height"); err != nil {
		return nil, err
	}
	if s.Square, err = jsonBool(root, "square"); err != nil {
		return nil, err
	}
	if s.Background, err = jsonString(root, "background"); err != nil {
		return nil, err
	}

	ops := root.Get("ops")
	if !ops.Exists() {
		return s, nil
	}
	if !ops.IsArray() {
		return nil, errors.New("ops must be an array")
	}
	for i, v := range ops.Array() {
		op, err := decodeJSONOp(v)
		if err != nil {
			return nil, fmt.Errorf("ops[%d]: %w", i, err)
		}
		s.Ops = append(s.Ops, op)
	}
	return s, nil
}

func decodeJSONOp(v gjson.Result) (Op, error) {
	var op Op
	if !v.IsObject() {
		return op, errors.New("must be an object")
	}
	if err := checkKeys(v, opKeys); err != nil {
		return op, err
	}

	var err error
	if op.Kind, err = jsonString(v, "op"); err != nil {
		return op, err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"x", &op.X}, {"y", &op.Y}, {"x2", &op.X2}, {"y2", &op.Y2}, {"w", &op.W}, {"h", &op.H},
	}
	for _, f := range ints {
		if *f.dst, err = jsonInt(v, f.key); err != nil {
			return op, err
		}
	}
	if op.Text, err = jsonString(v, "text"); err != nil {
		return op, err
	}
	if op.Color, err = jsonColor(v); err != nil {
		return op, err
	}

	rgb := v.Get("rgb")
	if rgb.Exists() {
		if !rgb.IsArray() {
			return op, errors.New("rgb must be an array")
		}
		for _, ch := range rgb.Array() {
			n, err := jsonNumber(ch, "rgb")
			if err != nil {
				return op, err
			}
			op.RGB = append(op.RGB, n)
		}
	}
	return op, nil
}

var (
	sceneKeys = keySet("width", "height", "square", "background", "ops")
	opKeys    = keySet("op", "x", "y", "x2", "y2", "w", "h", "text", "color", "rgb")
)

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// checkKeys rejects the first key of object v that is not in known.
func checkKeys(v gjson.Result, known map[string]bool) error {
	var err error
	v.ForEach(func(key, _ gjson.Result) bool {
		if !known[key.String()] {
			err = fmt.Errorf("unknown field %q", key.String())
			return false
		}
		return true
	})
	return err
}

// jsonColor accepts a string or a bare palette index.
func jsonColor(v gjson.Result) (string, error) {
	c := v.Get("color")
	switch c.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return c.String(), nil
	case gjson.Number:
		n, err := jsonNumber(c, "color")
		if err != nil {
			return "", err
		}
		return fmt.Sprint(n), nil
	default:
		return "", errors.New("color must be a string or number")
	}
}

func jsonInt(v gjson.Result, key string) (int, error) {
	r := v.Get(key)
	if !r.Exists() {
		return 0, nil
	}
	return jsonNumber(r, key)
}

func jsonNumber(r gjson.Result, key string) (int, error) {
	if r.Type != gjson.Number {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	f := r.Float()
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be an integer, got %s", key, r.Raw)
	}
	return int(f), nil
}

func jsonBool(v gjson.Result, key string) (bool, error) {
	r := v.Get(key)
	switch r.Type {
	case gjson.Null:
		return false, nil
	case gjson.True, gjson.False:
		return r.Bool(), nil
	default:
		return false, fmt.Errorf("%s must be a boolean", key)
	}
}

func jsonString(v gjson.Result, key string) (string, error) {
	r := v.Get(key)
	switch r.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return r.String(), nil
	default:
		return "", fmt.Errorf("%s must be a string", key)
	}
}

// EncodeJSON writes s as indented JSON. Each op carries only the fields its
// kind uses.
func EncodeJSON(s *Scene) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	out, err = setAll(out, []field{
		{"width", s.Width},
		{"height", s.Height},
		{"square", s.Square},
	})
	if err == nil && s.Background != "" {
		out, err = sjson.SetBytes(out, "background", s.Background)
	}
	if err == nil {
		out, err = sjson.SetRawBytes(out, "ops", []byte(`[]`))
	}
	for i := 0; err == nil && i < len(s.Ops); i++ {
		var raw []byte
		if raw, err = encodeOp(&s.Ops[i]); err == nil {
			out, err = sjson.SetRawBytes(out, "ops.-1", raw)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encoding scene: %w", err)
	}
	return pretty.Pretty(out), nil
}

type field struct {
	path  string
	value any
}

func setAll(doc []byte, fields []field) ([]byte, error) {
	var err error
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func encodeOp(op *Op) ([]byte, error) {
	fields := []field{{"op", op.Kind}}
	switch op.Kind {
	case KindPixel:
		fields = append(fields, field{"x", op.X}, field{"y", op.Y})
	case KindText:
		fields = append(fields, field{"x", op.X}, field{"y", op.Y}, field{"text", op.Text})
	case KindRect:
		fields = append(fields, field{"x", op.X}, field{"y", op.Y}, field{"w", op.W}, field{"h", op.H})
	case KindLine:
		fields = append(fields, field{"x", op.X}, field{"y", op.Y}, field{"x2", op.X2}, field{"y2", op.Y2})
	}
	if op.Kind != KindClear {
		if len(op.RGB) > 0 {
			fields = append(fields, field{"rgb", op.RGB})
		} else if op.Color != "" {
			fields = append(fields, field{"color", op.Color})
		}
	}
	return setAll([]byte(`{}`), fields)
}
