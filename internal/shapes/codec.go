package shapes

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Decoder reconstructs a live shape from its wire record. Every shape
// kind registers a Decoder with this uniform context-aware signature so
// the registry can treat all kinds polymorphically; kinds that need to
// load assets during reconstruction can block on the context, and kinds
// that don't (all of the current family) resolve immediately.
type Decoder func(ctx context.Context, data []byte) (Shape, error)

// registry maps wire discriminators to their reconstructors.
var registry = map[string]Decoder{
	TypeArrow:     immediate(decodeArrow),
	TypeDimension: immediate(decodeDimension),
	TypeFreehand:  immediate(decodeFreehand),
	TypeRectangle: immediate(decodeRectangle),
	TypeEllipse:   immediate(decodeEllipse),
	TypeText:      immediate(decodeText),
}

// immediate lifts a synchronous decode function into the uniform
// Decoder contract.
func immediate(fn func([]byte) (Shape, error)) Decoder {
	return func(ctx context.Context, data []byte) (Shape, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fn(data)
	}
}

// Decode reconstructs one shape from its JSON record. An unknown type
// is an error naming the offending discriminator: silently dropping an
// unrecognized shape would lose user data, so the caller must surface
// it. Unrecognized extra keys on a known record are ignored.
func Decode(ctx context.Context, data []byte) (Shape, error) {
	var head struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("malformed shape record: %w", err)
	}
	if head.Type == nil || *head.Type == "" {
		return nil, fmt.Errorf("shape record has no type discriminator")
	}

	decode, ok := registry[*head.Type]
	if !ok {
		return nil, fmt.Errorf("unknown shape type %q", *head.Type)
	}
	shape, err := decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", *head.Type, err)
	}
	return shape, nil
}

// RegisteredTypes returns the known discriminators, sorted.
func RegisteredTypes() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// requireFields checks decoded record fields for presence and reports
// every missing one, so a truncated document names all its gaps at
// once.
func requireFields(shapeType string, present map[string]bool) error {
	var missing []string
	for field, ok := range present {
		if !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%s record missing required field(s): %s",
		shapeType, strings.Join(missing, ", "))
}
