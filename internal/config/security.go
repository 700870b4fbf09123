package config

import (
	"regexp"
	"strings"
)

// SensitivePattern represents a pattern that might indicate a hardcoded secret
// in a manifest's env table.
type SensitivePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:    "API Key",
		Pattern: regexp.MustCompile(`(?i)(api[_-]?key|apikey)["']?\s*[=,]\s*(value\s*=\s*)?['"][a-zA-Z0-9_-]{15,}['"]`),
	},
	{
		Name:    "Token",
		Pattern: regexp.MustCompile(`(?i)(token|bearer)["']?\s*[=,]\s*(value\s*=\s*)?['"][a-zA-Z0-9_-]{15,}['"]`),
	},
	{
		Name:    "Password",
		Pattern: regexp.MustCompile(`(?i)(password|passwd|pwd)["']?\s*[=,]\s*(value\s*=\s*)?['"].+['"]`),
	},
	{
		Name:    "GitHub Token",
		Pattern: regexp.MustCompile(`\b(gh[opsu]_[a-zA-Z0-9]{36,}|github_pat_[a-zA-Z0-9_]{22,})`),
	},
}

// SensitiveDataFinding represents a detected sensitive data instance
type SensitiveDataFinding struct {
	PatternName string
	Line        int    // 1-based
	Preview     string // line with string literals redacted
}

// DetectSensitiveData scans manifest source for values that look like
// credentials. Language servers that need a token should read it from the
// editor's environment instead of the manifest.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		for _, pattern := range sensitivePatterns {
			if pattern.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{
					PatternName: pattern.Name,
					Line:        lineNum + 1,
					Preview:     redactSensitiveValue(line),
				})
			}
		}
	}

	return findings
}

var stringLiteral = regexp.MustCompile(`"[^"]*"|'[^']*'`)

// redactSensitiveValue replaces the string literals of a line. In a
// { name = ..., value = ... } entry the name literal is kept.
func redactSensitiveValue(line string) string {
	n := 0
	redacted := stringLiteral.ReplaceAllStringFunc(line, func(lit string) string {
		n++
		if n == 1 && strings.Contains(line, luaFieldName) {
			return lit
		}
		return `"[REDACTED]"`
	})
	return strings.TrimSpace(redacted)
}
