package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalAndGrade(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]interface{}
		total  *int
		grade  string
	}{
		{"int", map[string]interface{}{"total": 55, "grade": "C"}, intPtr(55), "C"},
		{"float", map[string]interface{}{"total": 71.0, "grade": "B"}, intPtr(71), "B"},
		{"json number", map[string]interface{}{"total": json.Number("45"), "grade": "D"}, intPtr(45), "D"},
		{"json float", map[string]interface{}{"total": json.Number("80.4")}, intPtr(80), ""},
		{"missing", map[string]interface{}{"ethical": 60}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, grade := totalAndGrade(tt.scores)
			if tt.total == nil {
				assert.Nil(t, total)
			} else {
				require.NotNil(t, total)
				assert.Equal(t, *tt.total, *total)
			}
			assert.Equal(t, tt.grade, grade)
		})
	}
}
