package ormtrace

import (
	"regexp"
	"strings"
)

// Regex patterns for statement sanitization.
var (
	// stringLiteralRegex matches single-quoted strings, handling escaped
	// quotes. Example matches: 'hello', 'it\'s'
	stringLiteralRegex = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)

	// numericLiteralRegex matches integer and float literals.
	numericLiteralRegex = regexp.MustCompile(`\b\d+\.?\d*\b`)

	// hexLiteralRegex matches hex literals such as 0xDEADBEEF.
	hexLiteralRegex = regexp.MustCompile(`0[xX][0-9a-fA-F]+`)
)

// extractOperation extracts the SQL operation (first word) from a
// statement, uppercased, or an empty string for an empty statement. It
// feeds the db.operation attribute on the duration histogram.
func extractOperation(statement string) string {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return ""
	}

	spaceIdx := strings.IndexAny(statement, " \t\n\r")
	if spaceIdx == -1 {
		return strings.ToUpper(statement)
	}

	return strings.ToUpper(statement[:spaceIdx])
}

// DefaultQuerySanitizer is a basic statement sanitizer that replaces
// literal values with placeholders so sensitive data does not appear in
// the db.query span field.
//
// What it sanitizes:
//   - String literals: 'john' → '?'
//   - Numeric literals: 123, 45.67 → ?
//   - Hex literals: 0xDEADBEEF → ?
//
// This is a simple regex-based implementation. For complex dialects,
// supply your own sanitizer via WithQuerySanitizer.
func DefaultQuerySanitizer(statement string) string {
	statement = stringLiteralRegex.ReplaceAllString(statement, "'?'")
	statement = numericLiteralRegex.ReplaceAllString(statement, "?")
	statement = hexLiteralRegex.ReplaceAllString(statement, "?")

	return statement
}
