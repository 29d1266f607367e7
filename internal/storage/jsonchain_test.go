package storage

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/powledger/pkg/digest"
	"github.com/tcfw/powledger/pkg/storage"
)

func TestJSONChain(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chain.json")
	c := NewJSONChain(path)

	last, err := c.LastBlock(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	b1 := minedBlock(t, digest.Sentinel, testRecords()[:2])
	b2 := minedBlock(t, b1.Hash, testRecords()[2:])
	require.NoError(t, c.AppendBlock(ctx, b1))
	require.NoError(t, c.AppendBlock(ctx, b2))

	chain, err := c.LoadChain(ctx)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.NoError(t, chain[1].Validate())

	in, err := c.TxBlock(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, b1.Hash, in.Hash)

	_, err = c.TxBlock(ctx, "zz")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	d, err := ioutil.ReadFile(path)
	require.NoError(t, err)

	raw := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(d, &raw))
	assert.Equal(t, b2.Hash, raw[1]["blockHash"])
	assert.Contains(t, raw[1]["header"].(map[string]interface{})["serialize"], "---> "+b2.Hash)
}
