package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapView struct {
	m      map[Key][]byte
	writes int
}

func newMapView() *mapView {
	return &mapView{m: make(map[Key][]byte)}
}

func (v *mapView) Read(k Key) ([]byte, error) {
	return v.m[k], nil
}

func (v *mapView) Exists(k Key) (bool, error) {
	_, ok := v.m[k]
	return ok, nil
}

func (v *mapView) Write(k Key, data []byte) error {
	v.writes++
	v.m[k] = data
	return nil
}

func key(b byte) Key {
	var k Key
	k[0] = b
	return k
}

func TestStateTableBuffersUntilApply(t *testing.T) {
	base := newMapView()
	table := NewStateTable(base)

	require.NoError(t, table.Write(key(1), []byte("one")))

	// Visible through the table, not in the base.
	data, err := table.Read(key(1))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)
	assert.Nil(t, base.m[key(1)])

	ok, err := table.Exists(key(1))
	require.NoError(t, err)
	assert.True(t, ok)

	affected, err := table.Apply()
	require.NoError(t, err)
	require.Len(t, affected, 1)
	assert.Equal(t, ActionInsert, affected[0].Action)
	assert.Equal(t, []byte("one"), base.m[key(1)])
}

func TestStateTableDropIsRollback(t *testing.T) {
	base := newMapView()
	base.m[key(1)] = []byte("original")

	table := NewStateTable(base)
	require.NoError(t, table.Write(key(1), []byte("changed")))
	require.NoError(t, table.Write(key(2), []byte("new")))

	// Never applied: the base keeps its original contents.
	assert.Equal(t, []byte("original"), base.m[key(1)])
	_, ok := base.m[key(2)]
	assert.False(t, ok)
}

func TestStateTableCachedReadsNotWrittenBack(t *testing.T) {
	base := newMapView()
	base.m[key(1)] = []byte("cached")

	table := NewStateTable(base)
	_, err := table.Read(key(1))
	require.NoError(t, err)

	affected, err := table.Apply()
	require.NoError(t, err)
	assert.Empty(t, affected)
	assert.Zero(t, base.writes)
}

func TestStateTableClassifiesModify(t *testing.T) {
	base := newMapView()
	base.m[key(1)] = []byte("a")

	table := NewStateTable(base)
	require.NoError(t, table.Write(key(1), []byte("b")))

	affected, err := table.Apply()
	require.NoError(t, err)
	require.Len(t, affected, 1)
	assert.Equal(t, ActionModify, affected[0].Action)
	assert.Equal(t, []byte("b"), base.m[key(1)])
}

func TestStateTableReadAfterWriteSeesBuffered(t *testing.T) {
	base := newMapView()
	base.m[key(1)] = []byte("a")

	table := NewStateTable(base)
	_, err := table.Read(key(1))
	require.NoError(t, err)
	require.NoError(t, table.Write(key(1), []byte("b")))

	data, err := table.Read(key(1))
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)
}
