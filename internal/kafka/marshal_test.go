package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

func TestUnwrapPayload(t *testing.T) {
	raw := json.RawMessage(MustMarshal(payload{Table: "sales", ID: "s1"}))

	got, err := UnwrapPayload[payload](raw)
	require.NoError(t, err)
	assert.Equal(t, payload{Table: "sales", ID: "s1"}, got)

	_, err = UnwrapPayload[payload](json.RawMessage(`{"table":`))
	assert.ErrorContains(t, err, "decode payload")
}

func TestMustMarshalPanicsOnUnsupported(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(make(chan int)) })
}
