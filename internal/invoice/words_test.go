package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "zero"},
		{7, "Seven"},
		{19, "Nineteen"},
		{20, "Twenty"},
		{45, "Forty five"},
		{100, "One hundred"},
		{101, "One hundred and one"},
		{120, "One hundred and twenty"},
		{1000, "One thousand"},
		{1001, "One thousand one"},
		{1534, "One thousand five hundred and thirty four"},
		{99999, "Ninety nine thousand nine hundred and ninety nine"},
		{100000, "One lakh"},
		{150000, "One lakh fifty thousand"},
		{1234567, "Twelve lakh thirty four thousand five hundred and sixty seven"},
		{10000000, "One crore"},
		{123456789, "Twelve crore thirty four lakh fifty six thousand seven hundred and eighty nine"},
		{1000000000, "One hundred crore"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ToWords(tt.n))
		})
	}
}

func TestToWordsNegative(t *testing.T) {
	assert.Equal(t, "", ToWords(-1))
	assert.Equal(t, "", AmountInWords(-1534))
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "One thousand five hundred and thirty five only", AmountInWords(1535))
	assert.Equal(t, "zero only", AmountInWords(0))
}
