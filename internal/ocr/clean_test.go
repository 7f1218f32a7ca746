package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Fish & Chips $12.00", CleanText("  Fish \t& Chips   $12.00 �"))
	assert.Equal(t, "", CleanText("\u000C"))
}

func TestCleanPageText(t *testing.T) {
	raw := "DESSERTS\r\n  Pie   $4.00\n\n\n\n---PAGE BREAK---DRINKS\n$2.00\n"
	assert.Equal(t, "DESSERTS\nPie $4.00\n\nDRINKS\n$2.00", CleanPageText(raw))
	assert.Equal(t, "", CleanPageText(""))
}

func TestFixPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Je $4.00", "Large $4.00"},
		{"Jelly Roll", "Jelly Roll"},
		{"Small $2.", "Small $2.00"},
		{"Small $2", "Small $2.00"},
		{"Large $3.00", "Large $3.00"},
		{"Pie", "Pie"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FixPrice(tt.in))
		})
	}
}
