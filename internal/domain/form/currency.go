package form

import (
	"math"
	"regexp"
	"strconv"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.\-]`)
	leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// minorUnits lists the ISO 4217 currencies whose minor unit is not two decimals.
// CLDR rounding differs from ISO for some codes (IDR has 0 digits there), so the
// ISO exponent is used instead.
var minorUnits = map[string]int{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"PYG": 0, "RWF": 0, "UGX": 0, "UYI": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"CLF": 4, "UYW": 4,
}

// MinorUnits returns the number of decimals ISO 4217 assigns to unit
func MinorUnits(unit currency.Unit) int {
	if scale, ok := minorUnits[unit.String()]; ok {
		return scale
	}
	return 2
}

// FormatCurrency formats an amount in US English notation for the given ISO currency code
// with its ISO 4217 decimals, e.g. 1000 USD -> "$1,000.00". NaN, infinities and unknown
// codes yield "".
func FormatCurrency(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return ""
	}

	p := message.NewPrinter(language.AmericanEnglish)
	scale := MinorUnits(unit)
	symbol := p.Sprint(currency.Symbol(unit))
	digits := p.Sprint(number.Decimal(math.Abs(amount), number.Scale(scale)))

	// Letter symbols such as "IDR" are separated from the digits
	if r := []rune(symbol); len(r) > 0 && unicode.IsLetter(r[len(r)-1]) {
		symbol += " "
	}

	if amount < 0 {
		return "-" + symbol + digits
	}
	return symbol + digits
}

// CleanNumber strips everything but digits, dots and minus signs and parses the leading
// number of what remains. Anything unparseable yields 0.
func CleanNumber(value string) float64 {
	cleaned := nonNumeric.ReplaceAllString(value, "")

	match := leadingNumber.FindString(cleaned)
	if match == "" {
		return 0
	}

	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return n
}

// DiffAmountColor returns the text color class for a settlement difference
func DiffAmountColor(diff float64) string {
	switch {
	case diff > 0:
		return "text-green-600"
	case diff < 0:
		return "text-red-600"
	default:
		return "text-gray-900"
	}
}
