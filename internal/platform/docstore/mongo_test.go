package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), "")
	require.Error(t, err)
}

func TestConnectReleasesClientWhenPingFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cli, err := Connect(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200")
	require.Error(t, err)
	assert.Nil(t, cli)
	assert.Contains(t, err.Error(), "ping")
}

func TestDisconnectNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Disconnect(nil) })
}
