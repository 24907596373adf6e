package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Params holds the variable segments bound by a matched route, keyed by
// variable name. Typed segments are stored in canonical text form.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[key]
}

func (p Params) Int(key string) (int, error) {
	raw, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("param %q not bound", key)
	}
	return cast.ToIntE(raw)
}

func (p Params) Float(key string) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("param %q not bound", key)
	}
	return cast.ToFloat64E(raw)
}

func (p Params) Bool(key string) (bool, error) {
	raw, ok := p[key]
	if !ok {
		return false, fmt.Errorf("param %q not bound", key)
	}
	return cast.ToBoolE(raw)
}

func (p Params) UUID(key string) (uuid.UUID, error) {
	raw, ok := p[key]
	if !ok {
		return uuid.Nil, fmt.Errorf("param %q not bound", key)
	}
	return uuid.Parse(raw)
}
