// Package address validates and normalizes the delimited contract address
// lists users paste into the submission form.
package address

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var delimiters = regexp.MustCompile(`[,\s/]+`)

// Split breaks s on commas, slashes and whitespace and drops empty tokens.
func Split(s string) []string {
	parts := delimiters.Split(s, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// IsEVMAddress reports whether token is 0x followed by exactly 40 hex digits.
func IsEVMAddress(token string) bool {
	// common.IsHexAddress also accepts a bare 40-digit string and an 0X prefix.
	if !strings.HasPrefix(token, "0x") {
		return false
	}
	return common.IsHexAddress(token)
}

// Validate reports whether every token in s is an EVM address. A string with
// no tokens is valid.
func Validate(s string) bool {
	for _, token := range Split(s) {
		if !IsEVMAddress(token) {
			return false
		}
	}
	return true
}

// Normalize lowercases the tokens of s and removes repeats, keeping the
// first-seen order.
func Normalize(s string) []string {
	tokens := Split(s)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.ToLower(token)
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
