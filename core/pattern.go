package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Converter validates a variable segment and returns its canonical text.
type Converter struct {
	Name    string
	Convert func(raw string) (string, bool)
}

var (
	digitsPattern = regexp.MustCompile(`^\d+$`)
	floatPattern  = regexp.MustCompile(`^\d+\.\d+$`)
	boolPattern   = regexp.MustCompile(`^(?i:true|false|1|0)$`)
)

var converters = map[string]Converter{
	"string": {Name: "string", Convert: func(raw string) (string, bool) {
		return raw, raw != "" && !strings.Contains(raw, "/")
	}},
	"int": {Name: "int", Convert: func(raw string) (string, bool) {
		if !digitsPattern.MatchString(raw) {
			return "", false
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	}},
	"float": {Name: "float", Convert: func(raw string) (string, bool) {
		if !floatPattern.MatchString(raw) {
			return "", false
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}},
	"bool": {Name: "bool", Convert: func(raw string) (string, bool) {
		if !boolPattern.MatchString(raw) {
			return "", false
		}
		b, err := cast.ToBoolE(strings.ToLower(raw))
		if err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	}},
	"uuid": {Name: "uuid", Convert: func(raw string) (string, bool) {
		id, err := uuid.Parse(raw)
		if err != nil || len(raw) != 36 {
			return "", false
		}
		return id.String(), true
	}},
}

// Segment is one slash-delimited part of a pattern: a literal or a variable.
type Segment struct {
	Literal   string
	Key       string
	Converter *Converter
}

func (s Segment) IsVariable() bool {
	return s.Key != ""
}

func (s Segment) match(part string) (string, bool) {
	if !s.IsVariable() {
		return "", part == s.Literal
	}
	return s.Converter.Convert(part)
}

func splitPath(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

func parsePattern(pattern string) ([]Segment, []string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, pattern)
	}

	parts := splitPath(pattern)
	segments := make([]Segment, 0, len(parts))
	paramKeys := []string{}
	seen := map[string]bool{}

	for _, part := range parts {
		if !strings.HasPrefix(part, "<") && !strings.HasSuffix(part, ">") {
			if strings.ContainsAny(part, "<>") {
				return nil, nil, fmt.Errorf("%w: %q has a stray bracket in %q", ErrInvalidPattern, pattern, part)
			}
			segments = append(segments, Segment{Literal: part})
			continue
		}

		if !strings.HasPrefix(part, "<") || !strings.HasSuffix(part, ">") || len(part) < 2 {
			return nil, nil, fmt.Errorf("%w: %q has an unbalanced segment %q", ErrInvalidPattern, pattern, part)
		}

		inner := part[1 : len(part)-1]
		convName, key := "string", inner
		if i := strings.Index(inner, ":"); i != -1 {
			convName, key = inner[:i], inner[i+1:]
		}

		conv, ok := converters[convName]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q uses unknown converter %q", ErrInvalidPattern, pattern, convName)
		}
		if key == "" || strings.ContainsAny(key, "<>:") {
			return nil, nil, fmt.Errorf("%w: %q has an invalid variable name in %q", ErrInvalidPattern, pattern, part)
		}
		if seen[key] {
			return nil, nil, fmt.Errorf("%w: %q binds %q twice", ErrInvalidPattern, pattern, key)
		}
		seen[key] = true

		segments = append(segments, Segment{Key: key, Converter: &conv})
		paramKeys = append(paramKeys, key)
	}

	return segments, paramKeys, nil
}
