package lib

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	cases := []struct {
		name  string
		label string
		err   error
		want  string
	}{
		{"single line", "Error:", errors.New("boom"), "Error: boom\n"},
		{"multi line aligns", "Error:", errors.New("not found\navailable: a, b"), "Error: not found\n       available: a, b\n"},
		{"styled label", "\x1b[1;31mError:\x1b[0m", errors.New("x\ny"), "\x1b[1;31mError:\x1b[0m x\n       y\n"},
		{"wide label", "エラー:", errors.New("x\ny"), "エラー: x\n        y\n"},
		{"nil", "Error:", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			Report(&buf, tc.label, tc.err)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}
