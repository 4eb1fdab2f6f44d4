package server

import (
	"regexp"
	"strings"
)

// SanitizeLogLines performs minimal redaction on log lines for safe exposure
func SanitizeLogLines(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	credentialPatterns := []struct {
		regex       *regexp.Regexp
		replacement string
	}{
		{regex: regexp.MustCompile(`(?i)api_key=[^\s]+`), replacement: "api_key=[redacted]"},
		{regex: regexp.MustCompile(`(?i)api_key"\s*:\s*"[^"]+"`), replacement: `api_key": "[redacted]"`},
		{regex: regexp.MustCompile(`(?i)token=[^\s]+`), replacement: "token=[redacted]"},
		{regex: regexp.MustCompile(`(?i)secret=[^\s]+`), replacement: "secret=[redacted]"},
		{regex: regexp.MustCompile(`(?i)password=[^\s]+`), replacement: "password=[redacted]"},
		{regex: regexp.MustCompile(`(?i)authorization:\s*bearer\s+[a-z0-9\-._~+/=]+`), replacement: "authorization: Bearer [redacted]"},
		{regex: regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]+`), replacement: "[redacted]"},
		{regex: regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`), replacement: "[redacted]"},
		{regex: regexp.MustCompile(`(?i)https?://[^:@\s]+:[^@\s]+@`), replacement: "http://[redacted]:[redacted]@"},
	}

	for i, l := range lines {
		for _, pattern := range credentialPatterns {
			l = pattern.regex.ReplaceAllString(l, pattern.replacement)
		}
		out[i] = strings.TrimRight(l, "\n")
	}
	return out
}
