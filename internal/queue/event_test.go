package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCigarTransferredEventJSON(t *testing.T) {
	ev := CigarTransferredEvent{
		TransferID:   12,
		CigarHash:    "abc123",
		OwnerID:      7,
		FromID:       1,
		FromLocation: "desk drawer",
		ToID:         2,
		ToLocation:   "humidor",
		MovedAt:      "2026-08-29T10:00:00Z",
	}
	bs, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(bs, &m))
	assert.Equal(t, "humidor", m["to_location"])
	assert.Equal(t, float64(12), m["transfer_id"])
	assert.Equal(t, "abc123", m["cigar_hash"])

	var back CigarTransferredEvent
	require.NoError(t, json.Unmarshal(bs, &back))
	assert.Equal(t, ev, back)
}

func TestSessionLoggedEventJSON(t *testing.T) {
	ev := SessionLoggedEvent{
		SessionID:   3,
		OwnerID:     7,
		Date:        "2026-08-29",
		CigarHashes: []string{"aa", "bb"},
	}
	bs, err := json.Marshal(ev)
	require.NoError(t, err)

	var back SessionLoggedEvent
	require.NoError(t, json.Unmarshal(bs, &back))
	assert.Equal(t, ev, back)
}
