package client_test

import (
	"path/filepath"
	"testing"
	"time"

	"shop/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalOrderStore_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")

	store := client.NewLocalOrderStore(path)
	require.NoError(t, store.Populate())
	assert.Empty(t, store.Read())

	order := client.LocalOrder{
		ID:         "local-abc",
		TotalPrice: 20,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.Save(order))

	//別インスタンスで読み直してもファイルから復元できる
	reloaded := client.NewLocalOrderStore(path)
	require.NoError(t, reloaded.Populate())
	saved := reloaded.Read()
	require.Len(t, saved, 1)
	assert.Equal(t, "local-abc", saved[0].ID)

	//Invalidateでファイルごと消える
	require.NoError(t, reloaded.Invalidate())
	assert.Empty(t, reloaded.Read())

	again := client.NewLocalOrderStore(path)
	require.NoError(t, again.Populate())
	assert.Empty(t, again.Read())
}

func TestLocalOrderStore_InvalidateWithoutFile(t *testing.T) {
	store := client.NewLocalOrderStore(filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, store.Invalidate())
}
