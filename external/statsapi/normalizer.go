package statsapi

import "bytes"

// Normalizer rewrites a raw payload before it is decoded. Implementations
// must return the input unchanged when they have nothing to fix.
type Normalizer interface {
	Normalize(path string, raw []byte) []byte
}

// NormalizerFunc adapts a function to Normalizer.
type NormalizerFunc func(path string, raw []byte) []byte

func (f NormalizerFunc) Normalize(path string, raw []byte) []byte {
	return f(path, raw)
}

// Chain applies normalizers in order.
func Chain(normalizers ...Normalizer) Normalizer {
	return NormalizerFunc(func(path string, raw []byte) []byte {
		for _, n := range normalizers {
			if n != nil {
				raw = n.Normalize(path, raw)
			}
		}
		return raw
	})
}

// DefaultNormalizer replaces the bare NaN and Infinity literals the provider
// occasionally emits for tracking values with null.
func DefaultNormalizer() Normalizer {
	return NormalizerFunc(func(_ string, raw []byte) []byte {
		return replaceNonFinite(raw)
	})
}

var nonFiniteTokens = [][]byte{
	[]byte("-Infinity"),
	[]byte("Infinity"),
	[]byte("NaN"),
}

func replaceNonFinite(raw []byte) []byte {
	if !bytes.Contains(raw, []byte("NaN")) && !bytes.Contains(raw, []byte("Infinity")) {
		return raw
	}

	out := make([]byte, 0, len(raw))
	inString := false
	escaped := false
	for i := 0; i < len(raw); {
		ch := raw[i]
		if inString {
			out = append(out, ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			i++
			continue
		}
		if ch == '"' {
			inString = true
			out = append(out, ch)
			i++
			continue
		}

		matched := false
		for _, token := range nonFiniteTokens {
			if bytes.HasPrefix(raw[i:], token) {
				out = append(out, "null"...)
				i += len(token)
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, ch)
			i++
		}
	}
	return out
}
