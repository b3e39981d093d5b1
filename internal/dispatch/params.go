package dispatch

// Params is the decoded params object of a request. JSON numbers
// arrive as float64; the accessors normalize the common cases.
type Params map[string]any

func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p Params) Int64(key string) (int64, bool) {
	switch v := p[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

func (p Params) Float64(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Has reports whether the key is present and non-null.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// OptString returns a pointer only when the key is present, so update
// handlers can tell "not sent" apart from "sent empty".
func (p Params) OptString(key string) *string {
	if !p.Has(key) {
		return nil
	}
	if s, ok := p[key].(string); ok {
		return &s
	}
	return nil
}
