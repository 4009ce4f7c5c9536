package stats

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordSuccessEnforced(t *testing.T) {
	r := New()
	r.Record(Data, "read", 64, true, true)

	snap := r.Snapshot()
	assert.Len(t, snap, 1)
	assert.Equal(t, uint64(1), snap[0].Counter.Ops)
	assert.Equal(t, uint64(64), snap[0].Counter.Bytes)
	assert.Equal(t, uint64(0), snap[0].Counter.Bypasses)
}

func TestRecordBypass(t *testing.T) {
	r := New()
	r.Record(Data, "read", 64, true, false)

	snap := r.Snapshot()
	assert.Equal(t, uint64(0), snap[0].Counter.Ops)
	assert.Equal(t, uint64(1), snap[0].Counter.Bypasses)
}

func TestRecordError(t *testing.T) {
	r := New()
	r.Record(Metadata, "open", 0, false, true)

	snap := r.Snapshot()
	assert.Equal(t, uint64(1), snap[0].Counter.Errors)
	assert.Equal(t, uint64(0), snap[0].Counter.Ops)
}

func TestRecordIsMonotonic(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(Data, "read", 1, true, true)
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, uint64(100), snap[0].Counter.Ops)
	assert.Equal(t, uint64(100), snap[0].Counter.Bytes)
}

func TestRenderTableAndLines(t *testing.T) {
	r := New()
	r.Record(Metadata, "open", 1, true, true)
	r.Record(Data, "read", 64, true, false)

	var table bytes.Buffer
	assert.NoError(t, r.Render(&table, Table))
	assert.Contains(t, table.String(), "CATEGORY")
	assert.Contains(t, table.String(), "open")

	var lines bytes.Buffer
	assert.NoError(t, r.Render(&lines, Lines))
	assert.Contains(t, lines.String(), "data.read")
	assert.Contains(t, lines.String(), "bypasses=1")
}

func TestLoadRoundTripsRenderLines(t *testing.T) {
	r := New()
	r.Record(Metadata, "open_variadic", 1, true, true)
	r.Record(Data, "read", 64, true, false)
	r.Record(Xattr, "getxattr", 0, false, true)

	var buf bytes.Buffer
	assert.NoError(t, r.Render(&buf, Lines))

	loaded, err := Load(&buf)
	assert.NoError(t, err)
	assert.Equal(t, r.Snapshot(), loaded.Snapshot())
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, err := Load(bytes.NewBufferString("not a valid line\n"))
	assert.Error(t, err)
}
