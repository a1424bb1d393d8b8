package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing opening quote",
			input: `{"gender": "女", zodiac": "双鱼座"}`,
			want:  `{"gender": "女", "zodiac": "双鱼座"}`,
		},
		{
			name:  "trailing comma in object",
			input: `{"a": 1, }`,
			want:  `{"a": 1 }`,
		},
		{
			name:  "trailing comma in array",
			input: `{"a": [1, 2,]}`,
			want:  `{"a": [1, 2]}`,
		},
		{
			name:  "comma inside string untouched",
			input: `{"a": "x,}"}`,
			want:  `{"a": "x,}"}`,
		},
		{
			name:  "valid JSON unchanged",
			input: `{"a": 1, "b": "c"}`,
			want:  `{"a": 1, "b": "c"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)), "repaired output should be valid JSON: %s", got)
		})
	}
}
