package repair

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regfix/internal/format"
	"github.com/joshuapare/regfix/internal/testutil"
	"github.com/joshuapare/regfix/pkg/types"
)

func TestPatcher_WriteHiveBinsSizeIdempotent(t *testing.T) {
	path := testutil.WriteHive(t, testutil.HealthySpec())
	p := NewPatcher(nil)

	require.NoError(t, p.WriteHiveBinsSize(path, 0x2000))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, p.WriteHiveBinsSize(path, 0x2000))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x00, 0x20, 0x00, 0x00}, first[40:44])
	assert.True(t, bytes.Equal(first, second), "second write must not change any byte")
}

func TestPatcher_TouchesOnlyTargetBytes(t *testing.T) {
	path := testutil.WriteHive(t, testutil.HealthySpec())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	p := NewPatcher(nil)
	require.NoError(t, p.WriteSequenceNumbers(path, 9, 10))
	require.NoError(t, p.WriteChecksum(path, 0xA1B2C3D4))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, after, len(before))

	changed := map[int]bool{}
	for _, off := range []int{4, 8, 508} {
		for i := off; i < off+4; i++ {
			changed[i] = true
		}
	}
	for i := range before {
		if !changed[i] {
			require.Equal(t, before[i], after[i], "byte 0x%X modified", i)
		}
	}
	assert.Equal(t, uint32(9), format.ReadU32(after, 4))
	assert.Equal(t, uint32(10), format.ReadU32(after, 8))
	assert.Equal(t, uint32(0xA1B2C3D4), format.ReadU32(after, 508))
}

func TestPatcher_Apply(t *testing.T) {
	tests := []struct {
		fix        types.Fix
		structural bool
		offset     int
		want       uint32
	}{
		{types.HiveBinsSizeFix{Size: 0x3000}, true, format.REGFDataSizeOffset, 0x3000},
		{types.SequenceNumbersFix{Primary: 4, Secondary: 4}, true, format.REGFSecondarySeqOffset, 4},
		{types.ChecksumFix{Checksum: 0x55}, false, format.REGFCheckSumOffset, 0x55},
	}
	for _, tt := range tests {
		t.Run(tt.fix.Type().String(), func(t *testing.T) {
			path := testutil.WriteHive(t, testutil.HealthySpec())
			structural, err := NewPatcher(nil).Apply(path, tt.fix)
			require.NoError(t, err)
			assert.Equal(t, tt.structural, structural)
			assert.Equal(t, tt.want, testutil.ReadU32At(t, path, tt.offset))
		})
	}
}

func TestPatcher_Errors(t *testing.T) {
	p := NewPatcher(nil)

	err := p.WriteChecksum(filepath.Join(t.TempDir(), "missing"), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	short := testutil.WriteBytes(t, "short.dat", make([]byte, 32))
	err = p.WriteHiveBinsSize(short, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBeyondEOF))
	var pe *PatchError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, int64(40), pe.Offset)

	info, statErr := os.Stat(short)
	require.NoError(t, statErr)
	assert.Equal(t, int64(32), info.Size(), "failed patch must not grow the file")
}

func TestPatcher_ApplyStructuralMatchesWrittenBytes(t *testing.T) {
	tests := []types.Fix{
		types.HiveBinsSizeFix{Size: 0x2000},
		types.SequenceNumbersFix{Primary: 9, Secondary: 9},
		types.ChecksumFix{Checksum: 0xA1B2C3D4},
	}
	for _, fix := range tests {
		t.Run(fix.Type().String(), func(t *testing.T) {
			path := testutil.WriteHive(t, testutil.HealthySpec())
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			structural, err := NewPatcher(nil).Apply(path, fix)
			require.NoError(t, err)
			assert.Equal(t, fix.Type().Structural(), structural)

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			inChecksummed := false
			for i := range before {
				if before[i] != after[i] && i < format.REGFChecksumRegionLen {
					inChecksummed = true
				}
			}
			assert.Equal(t, structural, inChecksummed, "structural must mean bytes in [0, 508) changed")
		})
	}
}
