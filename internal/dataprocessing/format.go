package dataprocessing

import (
	"fmt"
	"math"
	"strings"

	"scorepanel/pkg/contracts/domain"
)

// FormatPercent renders a fraction as a pt-BR percentage: 0.8512 -> "85,12%"
func FormatPercent(n domain.Number) string {
	if !n.Valid {
		return ""
	}
	return decimalComma(fmt.Sprintf("%.2f%%", n.Value*100))
}

// FormatDecimal renders a value with two decimals and a comma: "202,71"
func FormatDecimal(n domain.Number) string {
	if !n.Valid {
		return ""
	}
	return decimalComma(fmt.Sprintf("%.2f", n.Value))
}

// FormatInteger renders a value rounded half away from zero: "1234"
func FormatInteger(n domain.Number) string {
	if !n.Valid {
		return ""
	}
	return fmt.Sprintf("%d", int64(math.Round(n.Value)))
}

// FormatValue dispatches on the column format
func FormatValue(n domain.Number, format domain.ValueFormat) string {
	switch format {
	case domain.FormatPercent:
		return FormatPercent(n)
	case domain.FormatInteger:
		return FormatInteger(n)
	default:
		return FormatDecimal(n)
	}
}

func decimalComma(s string) string {
	return strings.Replace(s, ".", ",", 1)
}
