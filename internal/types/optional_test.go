package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalTriState(t *testing.T) {
	type payload struct {
		Title    Optional[string] `json:"title"`
		Assignee Optional[uint]   `json:"assignee"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Title.Set)
	assert.False(t, absent.Assignee.Set)

	var null payload
	require.NoError(t, json.Unmarshal([]byte(`{"assignee": null}`), &null))
	assert.False(t, null.Title.Set)
	assert.True(t, null.Assignee.Set)
	assert.False(t, null.Assignee.Valid)

	var present payload
	require.NoError(t, json.Unmarshal([]byte(`{"title": "x", "assignee": 7}`), &present))
	assert.True(t, present.Title.Set)
	assert.True(t, present.Title.Valid)
	assert.Equal(t, "x", present.Title.Value)
	assert.True(t, present.Assignee.Set)
	assert.Equal(t, uint(7), present.Assignee.Value)
}

func TestOptionalRejectsWrongType(t *testing.T) {
	type payload struct {
		Assignee Optional[uint] `json:"assignee"`
	}

	var p payload
	assert.Error(t, json.Unmarshal([]byte(`{"assignee": "seven"}`), &p))
}
