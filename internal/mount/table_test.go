package mount

import (
	"os"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, enabled bool, remote string, workflows []Workflow) *Table {
	t.Helper()
	classifier := NewClassifier(enabled, remote, nil)
	pool := NewPool(enabled, workflows)
	return New(classifier, pool, nil)
}

func TestClassification(t *testing.T) {
	disabled := newTestTable(t, false, "", nil)
	assert.Equal(t, None, disabled.classifier.Extract("/anything"))

	enabled := newTestTable(t, true, "/tmp", nil)
	assert.Equal(t, Remote, enabled.classifier.Extract("/tmp/x"))
	assert.Equal(t, None, enabled.classifier.Extract("/etc/x"))
}

func TestSubstringSharpEdgePreserved(t *testing.T) {
	tbl := newTestTable(t, true, "/tmp", nil)
	// Known sharp edge, preserved deliberately: substring, not prefix, match.
	assert.Equal(t, Remote, tbl.classifier.Extract("/foo/tmp/bar"))
}

func TestReservedHandles(t *testing.T) {
	tbl := newTestTable(t, false, "", []Workflow{1})

	assert.False(t, tbl.InsertFD(0, "/x", None, UnsetMetadataUnit))
	assert.False(t, tbl.InsertFD(1, "/x", None, UnsetMetadataUnit))
	assert.False(t, tbl.InsertFD(2, "/x", None, UnsetMetadataUnit))

	_, ok := tbl.GetFD(2)
	assert.False(t, ok)
	assert.False(t, tbl.RemoveFD(2))

	assert.False(t, tbl.InsertStream(nil, "/x", None, UnsetMetadataUnit))
	assert.False(t, tbl.InsertStream(os.Stdin, "/x", None, UnsetMetadataUnit))
	assert.False(t, tbl.InsertStream(os.Stdout, "/x", None, UnsetMetadataUnit))
	assert.False(t, tbl.InsertStream(os.Stderr, "/x", None, UnsetMetadataUnit))

	_, ok = tbl.GetStream(os.Stdin)
	assert.False(t, ok)
}

func TestReplaceSemantics(t *testing.T) {
	tbl := newTestTable(t, false, "", []Workflow{1})

	require.True(t, tbl.InsertFD(10, "/a", None, UnsetMetadataUnit))
	require.True(t, tbl.InsertFD(10, "/b", Remote, 3))

	e, ok := tbl.GetFD(10)
	require.True(t, ok)
	assert.Equal(t, "/b", e.Path)
	assert.Equal(t, Remote, e.Class)
	assert.EqualValues(t, 3, e.MetadataUnit)
}

func TestReplaceFDRekeysAtomically(t *testing.T) {
	tbl := newTestTable(t, false, "", []Workflow{1})
	require.True(t, tbl.InsertFD(10, "/a", Remote, 7))
	before, ok := tbl.GetFD(10)
	require.True(t, ok)

	assert.True(t, tbl.ReplaceFD(10, 20))

	_, ok = tbl.GetFD(10)
	assert.False(t, ok)

	after, ok := tbl.GetFD(20)
	require.True(t, ok)
	assert.Equal(t, "/a", after.Path)

	// The same entry must resurface under the new key, not a copy with
	// drifted fields.
	if diff := pretty.Compare(before, after); diff != "" {
		t.Errorf("entry changed across ReplaceFD: %s", diff)
	}
}

func TestReplaceFDFailsWhenOldMissingOrReserved(t *testing.T) {
	tbl := newTestTable(t, false, "", []Workflow{1})
	assert.False(t, tbl.ReplaceFD(99, 100))
	assert.False(t, tbl.ReplaceFD(1, 100))

	require.True(t, tbl.InsertFD(10, "/a", None, UnsetMetadataUnit))
	assert.False(t, tbl.ReplaceFD(10, 2))
}

func TestPickForFDAndPickForced(t *testing.T) {
	tbl := newTestTable(t, true, "/tmp", []Workflow{42})
	require.True(t, tbl.InsertFD(10, "/tmp/a", Remote, UnsetMetadataUnit))

	assert.Equal(t, Workflow(42), tbl.PickForFD(10))
	assert.Equal(t, Invalid, tbl.PickForFD(11))
	assert.Equal(t, Workflow(42), tbl.PickForced())
}
