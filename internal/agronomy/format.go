package agronomy

import (
	"fmt"
	"strconv"
	"strings"
)

// kgPerHectare renders an application rate rounded to whole kilograms.
func kgPerHectare(v float64) string {
	return fmt.Sprintf("%.0f kg/hectare", v)
}

// decimal renders v in its shortest form but always with a fractional part,
// so 5 prints as "5.0" and 5.55 as "5.55".
func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
