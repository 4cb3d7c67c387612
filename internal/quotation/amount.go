package quotation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxAmount is the largest money amount ParseAmount accepts.
const MaxAmount = 100_000_000

// MaxPaintMultiplier is the largest number of paint layers ParseMultiplier
// accepts; larger values count as 0.
const MaxPaintMultiplier = 10

// currencySuffixes are accepted after an amount, compared case-insensitively.
var currencySuffixes = []string{"zł", "zl", "pln"}

// AmountError reports free-text that does not follow the amount grammar.
type AmountError struct {
	Text   string
	Reason string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Text, e.Reason)
}

// ParseAmount reads a non-negative money amount from free text.
//
//	amount   = ws* [sign] digit { [sep] digit } [ "." digit+ ] ws* [currency] ws*
//	sep      = "," | "'" | any Unicode space separator (incl. NBSP)
//	currency = "zł" | "zl" | "pln"
//
// Separators are only allowed between two digits. Empty text is a valid
// "no amount" and yields 0 with a nil error.
func ParseAmount(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, nil
	}

	for _, suffix := range currencySuffixes {
		if trimmed, ok := trimSuffixFold(s, suffix); ok {
			s = strings.TrimSpace(trimmed)
			break
		}
	}
	if s == "" {
		return 0, &AmountError{Text: text, Reason: "no digits"}
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	var b strings.Builder
	runes := []rune(s)
	seenDot := false
	for i, r := range runes {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot && i > 0 && i < len(runes)-1 && isDigit(runes[i-1]):
			seenDot = true
			b.WriteRune(r)
		case isGroupSeparator(r) && !seenDot && i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]):
			// thousands grouping, dropped
		default:
			return 0, &AmountError{Text: text, Reason: fmt.Sprintf("unexpected %q", r)}
		}
	}

	digits := b.String()
	if digits == "" || digits[0] == '.' || strings.HasSuffix(digits, ".") {
		return 0, &AmountError{Text: text, Reason: "no digits"}
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, &AmountError{Text: text, Reason: err.Error()}
	}
	if negative && v != 0 {
		return 0, &AmountError{Text: text, Reason: "amount must not be negative"}
	}
	if v > MaxAmount {
		return 0, &AmountError{Text: text, Reason: fmt.Sprintf("amount exceeds %d", MaxAmount)}
	}

	return v, nil
}

// ParseMultiplier reads the number of paint layers from caller text such
// as "2", "2x" or "1x krotne". Text that does not start with a digit, or
// names more than MaxPaintMultiplier layers, counts as 0.
func ParseMultiplier(text string) int {
	s := strings.TrimSpace(text)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n > MaxPaintMultiplier {
		return 0
	}
	return n
}

// FormatAmount renders v as an integer with spaces between thousands,
// e.g. 14850 -> "14 850". Rounding follows %.0f.
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if s == "0" {
		sign = ""
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func trimSuffixFold(s, suffix string) (string, bool) {
	rs := []rune(s)
	n := utf8.RuneCountInString(suffix)
	if len(rs) < n || !strings.EqualFold(string(rs[len(rs)-n:]), suffix) {
		return s, false
	}
	return string(rs[:len(rs)-n]), true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isGroupSeparator(r rune) bool {
	return r == ',' || r == '\'' || unicode.Is(unicode.Zs, r)
}
