// Package phpeso formats amounts as Philippine peso currency strings.
package phpeso

import "strconv"

// Format renders amount as "₱1,234,567.89": two decimals, comma thousands
// separators.
func Format(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	// s is now "<digits>.<dd>"
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return "₱" + sign + string(out) + frac
}
