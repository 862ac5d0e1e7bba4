package invoice

import (
	"strings"
)

var ones = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

var tens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

const (
	thousand = 1000
	lakh     = 100000
	crore    = 10000000
)

// ToWords spells out n using the Indian scale (thousand, lakh, crore).
// Only the first letter is upper case. n must be non-negative; ToWords(-1) returns "".
func ToWords(n int64) string {
	if n < 0 {
		return ""
	}
	if n == 0 {
		return "zero"
	}
	words := spell(n)
	return strings.ToUpper(words[:1]) + words[1:]
}

// AmountInWords is the phrase printed under the totals, e.g. "One thousand five hundred and thirty five only"
func AmountInWords(n int64) string {
	words := ToWords(n)
	if words == "" {
		return ""
	}
	return words + " only"
}

func spell(n int64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	case n < thousand:
		return tier(n, 100, " hundred", " and ")
	case n < lakh:
		return tier(n, thousand, " thousand", " ")
	case n < crore:
		return tier(n, lakh, " lakh", " ")
	default:
		return tier(n, crore, " crore", " ")
	}
}

func tier(n, unit int64, name, sep string) string {
	head := spell(n/unit) + name
	if rest := n % unit; rest != 0 {
		return head + sep + spell(rest)
	}
	return head
}
