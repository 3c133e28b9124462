package cart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

func TestSnapshot_RoundTripKeepsOrder(t *testing.T) {
	in := domain.Cart{
		{Product: domain.Product{ID: 7, Title: "Tênis", Price: decimal.RequireFromString("139.90"), Image: "a.jpg"}, Amount: 2},
		{Product: domain.Product{ID: 3, Title: "Boot", Price: decimal.RequireFromString("99.5")}, Amount: 1},
	}

	data, err := EncodeSnapshot(in, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	out, err := DecodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(7), out[0].Product.ID)
	assert.Equal(t, int64(3), out[1].Product.ID)
	assert.True(t, in[0].Product.Price.Equal(out[0].Product.Price))
	assert.Equal(t, "Tênis", out[0].Product.Title)
	assert.Equal(t, 2, out[0].Amount)
}

func TestSnapshot_EnvelopeShape(t *testing.T) {
	data, err := EncodeSnapshot(domain.Cart{}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `1`, string(raw["version"]))
	assert.JSONEq(t, `"2024-01-02T02:04:05Z"`, string(raw["saved_at"]))
	assert.JSONEq(t, `[]`, string(raw["entries"]))
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "empty", payload: "  ", want: domain.ErrSnapshotMalformed},
		{name: "not json", payload: "{oops", want: domain.ErrSnapshotMalformed},
		{name: "legacy array", payload: `[{"id":1,"amount":1}]`, want: domain.ErrSnapshotVersion},
		{name: "missing version", payload: `{"entries":[]}`, want: domain.ErrSnapshotVersion},
		{name: "zero amount", payload: `{"version":1,"entries":[{"product_id":1,"amount":0}]}`, want: domain.ErrSnapshotMalformed},
		{name: "duplicate", payload: `{"version":1,"entries":[{"product_id":1,"amount":1},{"product_id":1,"amount":2}]}`, want: domain.ErrSnapshotMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.payload))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDescribe(t *testing.T) {
	n := Describe(domain.OperationAdd, 5, 2, nil)
	assert.Equal(t, domain.KindAdded, n.Kind)
	assert.Equal(t, "Added!", n.Message)
	assert.Equal(t, 2, n.Amount)

	n = Describe(domain.OperationUpdate, 5, 9, domain.ErrOutOfStock)
	assert.Equal(t, domain.KindOutOfStock, n.Kind)
	assert.Zero(t, n.Amount)

	n = Describe(domain.OperationRemove, 5, 0, domain.ErrRemoveFailed)
	assert.Equal(t, domain.KindRemoveFailed, n.Kind)
	assert.Equal(t, "Failed to remove product", n.Message)
}
