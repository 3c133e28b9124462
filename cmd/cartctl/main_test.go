package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cartstore/internal/app"
	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

func envWithDir(dir string) app.EnvLookup {
	return func(key string) (string, bool) {
		if key == "CART_FILE_DIR" {
			return dir, true
		}
		return "", false
	}
}

func TestRun_PersistsBetweenInvocations(t *testing.T) {
	lookup := envWithDir(t.TempDir())
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"add", "1"}, lookup, &out))
	assert.Contains(t, out.String(), "Added!")

	out.Reset()
	require.NoError(t, run(ctx, []string{"set", "1", "3"}, lookup, &out))
	assert.Contains(t, out.String(), "Quantity updated")

	out.Reset()
	require.NoError(t, run(ctx, []string{"list"}, lookup, &out))
	assert.Contains(t, out.String(), "539.70")

	out.Reset()
	err := run(ctx, []string{"add", "1"}, lookup, &out)
	require.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Contains(t, out.String(), "Requested quantity is out of stock")

	out.Reset()
	require.NoError(t, run(ctx, []string{"remove", "1"}, lookup, &out))
	assert.Contains(t, out.String(), "cart is empty")
}

func TestRun_Errors(t *testing.T) {
	lookup := envWithDir(t.TempDir())

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "no command", args: nil, want: errUsage},
		{name: "unknown command", args: []string{"checkout"}, want: errUsage},
		{name: "missing id", args: []string{"add"}, want: errUsage},
		{name: "bad id", args: []string{"remove", "x"}, want: errUsage},
		{name: "bad amount", args: []string{"set", "1", "many"}, want: errUsage},
		{name: "invalid amount", args: []string{"set", "1", "0"}, want: domain.ErrInvalidAmount},
		{name: "not in cart", args: []string{"remove", "2"}, want: domain.ErrProductNotInCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, lookup, &bytes.Buffer{})
			require.ErrorIs(t, err, tt.want)
		})
	}
}
