package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCrisis(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"I want to KILL MYSELF", true},
		{"thinking about suicide lately", true},
		{"I self-harm sometimes", true},
		{"sometimes I cut myself", true},
		{"I Want To Die", true},
		{"I want to end my life", true},
		{"this homework is killing me", false},
		{"I feel anxious about my exam", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCrisis(tt.text))
		})
	}
}
