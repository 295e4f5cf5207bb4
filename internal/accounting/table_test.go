package accounting

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAccountBytes(t *testing.T) {
	tbl := NewTable()

	tbl.AccountBytes("53", 28, true)
	tbl.AccountBytes("53", 100, false)
	tbl.AccountBytes("53", 72, false)

	u, ok := tbl.Get("53")
	require.True(t, ok)
	assert.Equal(t, uint64(28), u.SentBytes)
	assert.Equal(t, uint64(172), u.ReceivedBytes)
	assert.Equal(t, uint64(1), u.SentPackets)
	assert.Equal(t, uint64(2), u.ReceivedPackets)
	assert.Equal(t, uint64(200), u.TotalBytes())
}

func TestTableIgnoresNegative(t *testing.T) {
	tbl := NewTable()
	tbl.AccountBytes("80", -1, true)

	assert.Equal(t, 0, tbl.Len())
}

func TestTableSnapshotOrder(t *testing.T) {
	tbl := NewTable()
	tbl.AccountBytes("8080", 10, true)
	tbl.AccountBytes("443", 500, false)
	tbl.AccountBytes("22", 10, true)
	tbl.AccountBytes("9", 10, false)

	rows := tbl.Snapshot()
	require.Len(t, rows, 4)

	ports := []string{rows[0].Port, rows[1].Port, rows[2].Port, rows[3].Port}
	assert.Equal(t, []string{"443", "9", "22", "8080"}, ports)
}

func TestTableSnapshotIsCopy(t *testing.T) {
	tbl := NewTable()
	tbl.AccountBytes("53", 28, true)

	rows := tbl.Snapshot()
	rows[0].SentBytes = 0

	u, _ := tbl.Get("53")
	assert.Equal(t, uint64(28), u.SentBytes)
}

func TestTableReset(t *testing.T) {
	tbl := NewTable()
	tbl.AccountBytes("53", 28, true)
	tbl.Reset()

	assert.Equal(t, 0, tbl.Len())
	_, ok := tbl.Get("53")
	assert.False(t, ok)
}

func TestTableConcurrentAccess(t *testing.T) {
	tbl := NewTable()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				tbl.AccountBytes("443", 1, j%2 == 0)
				_ = tbl.Snapshot()
			}
		}()
	}
	wg.Wait()

	u, ok := tbl.Get("443")
	require.True(t, ok)
	assert.Equal(t, uint64(8000), u.TotalBytes())
}
