package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a currency value with thousands separators and no decimals.
func FormatAmount(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// FormatPercent renders a 0-100 rate with two decimals and a percent sign.
func FormatPercent(v float64) string {
	return printer.Sprintf("%.2f", v) + "%"
}

// FormatScore renders a mean score with two decimals.
func FormatScore(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Percent returns matching/total*100. ok is false when total is zero.
func Percent(matching, total int) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	return float64(matching) * 100 / float64(total), true
}

// Mean returns the arithmetic mean. ok is false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}
