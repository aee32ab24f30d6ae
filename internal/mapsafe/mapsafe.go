// Package mapsafe reads typed values out of loosely decoded JSON objects.
package mapsafe

// Get retrieves a typed value from a map[string]any.
// If the key is missing or holds a value of another type, it returns the default value.
func Get[T any](m map[string]any, key string, defaultValue T) T {
	if v, ok := m[key].(T); ok {
		return v
	}

	return defaultValue
}

// Lookup is like Get but reports whether the key held a value of type T.
func Lookup[T any](m map[string]any, key string) (T, bool) {
	v, ok := m[key].(T)
	return v, ok
}

// Objects returns the elements of the array stored under key that are JSON objects.
// Other elements are skipped, order is preserved.
func Objects(m map[string]any, key string) []map[string]any {
	items := Get[[]any](m, key, nil)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}

	return out
}
