package dump

import (
	"bytes"
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_Session(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	ctx := context.Background()

	require.NoError(t, b.Initialize(ctx))
	require.NoError(t, b.Listen(ctx, 30))
	require.NoError(t, b.Write(ctx, []byte{0x40, 0x01, 0x04, 0x03, 0x00}))
	require.NoError(t, b.Write(ctx, []byte{0xA9, 0x00, 0x60}))
	require.NoError(t, b.Unlisten(ctx))
	require.NoError(t, b.Close())

	want := "initialize\n" +
		"listen 30\n" +
		"write frame 1: 5 bytes\n" +
		hex.Dump([]byte{0x40, 0x01, 0x04, 0x03, 0x00}) +
		"write frame 2: 3 bytes\n" +
		hex.Dump([]byte{0xA9, 0x00, 0x60}) +
		"unlisten\n"
	assert.Equal(t, want, out.String())
}

func TestBus_EmptyFrame(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)

	require.NoError(t, b.Write(context.Background(), nil))

	assert.Equal(t, "write frame 1: 0 bytes\n", out.String())
}
