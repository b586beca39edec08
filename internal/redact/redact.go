// Package redact scrubs sensitive material from strings before they reach
// logs. Error text can carry connection strings, bearer tokens, SQL, or
// personal data; everything logged through the API error path passes
// through here first.
package redact

import "regexp"

// Placeholder substituted for each matched pattern.
const (
	credentialPlaceholder = "[REDACTED_CREDENTIAL]"
	tokenPlaceholder      = "[REDACTED_TOKEN]"
	emailPlaceholder      = "[REDACTED_EMAIL]"
	pathPlaceholder       = "[REDACTED_PATH]"
	sqlPlaceholder        = "[REDACTED_SQL]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Order matters: connection strings must be scrubbed before the bare email
// pattern can match the user:pass@host fragment, and JWTs before the
// credential-keyword pattern can eat the word "token" next to one.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres(ql)?|mysql|mongodb)://[^\s@]+@`), credentialPlaceholder},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), tokenPlaceholder},
	// The value charset excludes brackets so already-substituted
	// placeholders are never matched again.
	{regexp.MustCompile(`(?i)(password|secret|token|api[_-]?key)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{6,}`), credentialPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), emailPlaceholder},
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\s[\s\w,*()='"$]+\b(FROM|INTO|SET)\b[\s\S]*`), sqlPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){3,}`), pathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's message.
// A nil error yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
