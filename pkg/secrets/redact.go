// Package secrets masks credential material before it reaches a plan
// export, log line, or audit record (spec §7, §4.9's "redacted headers").
// It is adapted from the governance policy's regex-rule redaction engine:
// that engine matched a caller-supplied pattern list against free-form
// output and substituted a caller-supplied replacement. This package
// narrows that to the planner's one actual need — a single fixed masking
// rule applied to known credential-bearing header values — so there is no
// rule list to author, compile, or get wrong.
package secrets

import "strings"

// Mask redacts a secret value: values of 8 characters or fewer become
// "***" outright (too short to partially reveal without narrowing the
// search space materially); longer values keep their first 4 and last 2
// characters, e.g. "abcdefghijkl" -> "abcd...kl".
func Mask(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "..." + value[len(value)-2:]
}

// MaskHeader redacts the value half of an "Name: value" header string,
// leaving the header name visible — e.g. "Authorization: Bearer abc123"
// becomes "Authorization: Bearer ***" for a short token, or the
// corresponding masked form for a longer one. Headers with no scheme
// prefix (Basic/Bearer/Cookie-style) are masked in full past the colon.
// A string with no colon at all is replaced by "***" whole.
func MaskHeader(header string) string {
	colon := strings.IndexByte(header, ':')
	if colon < 0 {
		return "***"
	}
	name := header[:colon]
	value := strings.TrimSpace(header[colon+1:])

	for _, scheme := range []string{"Bearer ", "Basic ", "session="} {
		if strings.HasPrefix(value, scheme) {
			return name + ": " + scheme + Mask(strings.TrimPrefix(value, scheme))
		}
	}
	return name + ": " + Mask(value)
}
