package logger

import "strings"

// Redacted replaces the value of any sensitive context key before emission.
const Redacted = "[REDACTED]"

// sensitiveKeySubstrings are matched against the lowercase form of every
// context key. A key containing any of them has its value redacted.
var sensitiveKeySubstrings = []string{
	"password",
	"token",
	"apikey",
	"api_key",
	"secret",
	"authorization",
	"cookie",
	"jwt",
	"sessionid",
	"session_id",
	"bearer",
}

// Sanitize returns a copy of ctx with sensitive values replaced by the
// Redacted marker. It recurses into nested map[string]any values only:
// slices, times, errors and every other value kind are opaque leaves and
// pass through unchanged. The caller's map is never mutated.
func Sanitize(ctx map[string]any) map[string]any {
	if ctx == nil {
		return nil
	}

	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		if isSensitiveKey(k) {
			out[k] = Redacted
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = Sanitize(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeySubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
