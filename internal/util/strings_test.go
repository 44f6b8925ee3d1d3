package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "only separators", in: " , ,", want: nil},
		{name: "trims and drops empty", in: " https://a.example.com ,*,", want: []string{"https://a.example.com", "*"}},
		{name: "repeats kept once", in: "b,a,b, c,a", want: []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCSV(tt.in))
		})
	}
}
