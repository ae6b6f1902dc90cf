package render

import (
	"encoding/json"
	"io"
)

type Renderer[T any] interface {
	Render(result T) error
}

// JSONRenderer writes any result as indented JSON
type JSONRenderer[T any] struct {
	out io.Writer
}

// NewJSONRenderer creates a JSON renderer
func NewJSONRenderer[T any](out io.Writer) *JSONRenderer[T] {
	return &JSONRenderer[T]{out: out}
}

func (r *JSONRenderer[T]) Render(result T) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
