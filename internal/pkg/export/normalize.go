package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D+`)

// ToYesNo folds the many truthy/falsy spellings the form produces into
// the canonical SIM/NAO the spreadsheet integration expects.
func ToYesNo(v interface{}) string {
	switch s := v.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "sim", "s", "true", "1", "yes", "y":
			return "SIM"
		case "nao", "não", "n", "false", "0", "no", "":
			return "NAO"
		}
		return "SIM"
	case bool:
		if s {
			return "SIM"
		}
		return "NAO"
	case nil:
		return "NAO"
	default:
		return "SIM"
	}
}

// OnlyDigits strips everything but digits.
func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// NormPhone normalizes a Brazilian phone number to +55DD9XXXXXXXX.
func NormPhone(s string) string {
	d := OnlyDigits(s)
	if d == "" {
		return ""
	}
	if len(d) == 11 {
		return "+55" + d
	}
	return d
}

// NormCEP formats a postal code as 00000-000 when it has eight digits.
func NormCEP(s string) string {
	d := OnlyDigits(s)
	if len(d) == 8 {
		return d[:5] + "-" + d[5:]
	}
	return d
}

// NormCurrency normalizes a free-form money string ("R$ 1.234,56") to
// a two-decimal value. Unparseable input yields the empty string.
func NormCurrency(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	// Brazilian format: dots group thousands, comma separates decimals
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.2f", n)
}
