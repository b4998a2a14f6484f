package artifact_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/conduit/pkg/pipeline/artifact"
)

type scaler struct {
	Mean, Std float64
	Columns   []string
}

// fittedScaler keeps its fitted mean private and encodes it itself.
type fittedScaler struct {
	mean float64
}

func (s *fittedScaler) GobEncode() ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, math.Float64bits(s.mean)), nil
}

func (s *fittedScaler) GobDecode(data []byte) error {
	if len(data) != 8 {
		return errors.Errorf("fitted scaler: got %d bytes", len(data))
	}

	s.mean = math.Float64frombits(binary.BigEndian.Uint64(data))

	return nil
}

type hiddenScaler struct {
	Name string
	mean float64
}

func init() {
	artifact.Register(&scaler{})
	artifact.Register(&fittedScaler{})
	artifact.Register(&hiddenScaler{})
	artifact.Register(map[string][]*fittedScaler{})
	artifact.Register(map[string]string{})
}

func TestStoreGetSet(t *testing.T) {
	t.Parallel()

	s := artifact.NewStore()
	_, err := s.Get("missing")
	require.ErrorIs(t, err, artifact.ErrKeyNotFound)

	var keyErr *artifact.KeyNotFoundError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "missing", keyErr.Key)

	s.Set("b", 1)
	s.Set("a", "x")
	s.Set("b", 2)

	v, err := s.Get("b")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, s.Has("a"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Keys())
}

func TestGetTyped(t *testing.T) {
	t.Parallel()

	s := artifact.NewStore()
	s.Set("counter", 3)

	n, err := artifact.Get[int](s, "counter")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = artifact.Get[string](s, "counter")
	assert.Error(t, err)

	_, err = artifact.Get[int](s, "missing")
	assert.ErrorIs(t, err, artifact.ErrKeyNotFound)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		codec artifact.Codec
	}{
		"gob":            {codec: artifact.GobCodec{}},
		"zstd":           {codec: artifact.ZstdCodec{}},
		"zstd wraps gob": {codec: artifact.ZstdCodec{Codec: artifact.GobCodec{}}},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := artifact.NewStore(artifact.WithCodec(tc.codec))
			src.Set("scaler", &scaler{Mean: 1.5, Std: 0.5, Columns: []string{"A", "B"}})
			src.Set("mapping", map[string]string{"A": "a"})
			src.Set("counter", 2)

			buf := &bytes.Buffer{}
			require.NoError(t, src.Save(buf))

			dst := artifact.NewStore(artifact.WithCodec(tc.codec))
			dst.Set("stale", true)
			require.NoError(t, dst.Load(buf))

			assert.False(t, dst.Has("stale"))
			assert.Equal(t, []string{"counter", "mapping", "scaler"}, dst.Keys())

			got, err := artifact.Get[*scaler](dst, "scaler")
			require.NoError(t, err)
			assert.Equal(t, &scaler{Mean: 1.5, Std: 0.5, Columns: []string{"A", "B"}}, got)

			mapping, err := artifact.Get[map[string]string](dst, "mapping")
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"A": "a"}, mapping)
		})
	}
}

func TestLoadFailureKeepsStore(t *testing.T) {
	t.Parallel()

	s := artifact.NewStore()
	s.Set("kept", 1)

	err := s.Load(bytes.NewBufferString("not gob"))
	require.Error(t, err)
	assert.True(t, s.Has("kept"))
}

func TestSaveFileLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artifacts.bin")

	src := artifact.NewStore()
	src.Set("columns", []string{"A", "B"})
	require.NoError(t, src.SaveFile(path))

	dst := artifact.NewStore()
	require.NoError(t, dst.LoadFile(path))

	cols, err := artifact.Get[[]string](dst, "columns")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, cols)

	err = dst.LoadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestSavePrivateState(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		codec artifact.Codec
	}{
		"gob":  {codec: artifact.GobCodec{}},
		"zstd": {codec: artifact.ZstdCodec{}},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := artifact.NewStore(artifact.WithCodec(tc.codec))
			src.Set("fitted", &fittedScaler{mean: 42})
			src.Set("nested", map[string][]*fittedScaler{"A": {{mean: 1.5}}})

			buf := &bytes.Buffer{}
			require.NoError(t, src.Save(buf))

			dst := artifact.NewStore(artifact.WithCodec(tc.codec))
			require.NoError(t, dst.Load(buf))

			got, err := artifact.Get[*fittedScaler](dst, "fitted")
			require.NoError(t, err)
			assert.InDelta(t, 42.0, got.mean, 0)

			nested, err := artifact.Get[map[string][]*fittedScaler](dst, "nested")
			require.NoError(t, err)
			assert.InDelta(t, 1.5, nested["A"][0].mean, 0)

			hidden := artifact.NewStore(artifact.WithCodec(tc.codec))
			hidden.Set("fitted", &fittedScaler{mean: 1})
			hidden.Set("scaler", &hiddenScaler{Name: "s", mean: 42})

			err = hidden.Save(&bytes.Buffer{})
			require.ErrorIs(t, err, artifact.ErrUnexportedState)
			assert.Contains(t, err.Error(), "hiddenScaler.mean")
			assert.Contains(t, err.Error(), `"scaler"`)
		})
	}
}
