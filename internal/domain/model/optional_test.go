package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchDoc struct {
	Title Optional[string]  `json:"title"`
	Image Optional[*string] `json:"image"`
	Stock Optional[int64]   `json:"stock"`
}

func TestOptional_AbsentNullAndValue(t *testing.T) {
	var p patchDoc
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Shirt","image":null}`), &p))

	assert.True(t, p.Title.Present())
	assert.Equal(t, "Shirt", p.Title.Value)

	assert.True(t, p.Image.Set)
	assert.True(t, p.Image.Null)
	assert.False(t, p.Image.Present())

	assert.False(t, p.Stock.Set)
}

func TestOptional_TypeMismatch(t *testing.T) {
	var p patchDoc
	err := json.Unmarshal([]byte(`{"stock":"ten"}`), &p)
	assert.Error(t, err)
}

func TestOptional_Constructors(t *testing.T) {
	assert.True(t, Some(3).Present())
	n := Null[int]()
	assert.True(t, n.Set)
	assert.False(t, n.Present())
}
