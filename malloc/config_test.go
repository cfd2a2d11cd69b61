package malloc

import "testing"

import s "github.com/bnclabs/gosettings"
import "github.com/stretchr/testify/require"

func TestDefaultsettings(t *testing.T) {
	setts := Defaultsettings()
	require.Equal(t, Spanpages, setts.Int64("spanpages"))
	require.Equal(t, Returnthreshold, setts.Int64("returnthreshold"))
	require.Equal(t, Batchmaxbytes, setts.Int64("batchmaxbytes"))
}

func TestSettingsOverride(t *testing.T) {
	m := New(s.Settings{"spanpages": int64(16)})
	require.Equal(t, int64(16), m.spanpages)
	require.Equal(t, Returnthreshold, m.returnthreshold)

	tc := m.NewCache()
	ptr := tc.Alloc(8)
	require.NotNil(t, ptr)
	// a doubled span maps twice the pages on the first refill.
	_, _, mapped := m.Info()
	require.Equal(t, int64(16), mapped)
	tc.Free(ptr, 8)
	tc.Release()
	m.Release()
}

func TestSettingsValidate(t *testing.T) {
	require.Panics(t, func() {
		New(s.Settings{"spanpages": int64(0)})
	})
	require.Panics(t, func() {
		New(s.Settings{"returnthreshold": int64(0)})
	})
	require.Panics(t, func() {
		New(s.Settings{"batchmaxbytes": int64(4)})
	})
	require.Panics(t, func() {
		New(s.Settings{"batchmaxbytes": int64(4097)})
	})
}
