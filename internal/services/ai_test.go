package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedTasks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{name: "plain array", content: `[{"title":"A","priority":"high","due_date":null}]`, want: 1},
		{name: "fenced", content: "```json\n[{\"title\":\"A\"},{\"title\":\"B\"}]\n```", want: 2},
		{name: "empty", content: "[]", want: 0},
		{name: "prose", content: "Sure! Here are your tasks", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGeneratedTasks(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseGeneratedTasks_DueDate(t *testing.T) {
	got, err := parseGeneratedTasks(`[{"title":"Ship","description":"v2","priority":"low","due_date":"2025-10-28T23:59:59Z"}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].DueDate)
	assert.Equal(t, "2025-10-28", got[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, "low", got[0].Priority)
}
