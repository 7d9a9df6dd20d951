//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/BiotopeGoServer/internal/str"
)

func testarchive(runid string, ran time.Time) RunArchive {
	return RunArchive{
		RunID: runid,
		Ran:   ran,
		Config: str.CurrentConfiguration{
			LDATopics: 4,
			LDASweeps: 100,
			LDASeed:   271828,
		},
		Regions:  []string{"WEST", "EAST"},
		Terms:    []string{"aa_t", "bb_t"},
		DocSums:  [][]int{{3, 0, 1, 0}, {0, 2, 0, 2}},
		Topics:   [][]int{{3, 0}, {0, 2}, {1, 0}, {0, 2}},
		ThetaRow: [][]float64{{0.75, 0, 0.25, 0}, {0, 0.5, 0, 0.5}},
	}
}

func TestVaultRoundtrip(t *testing.T) {
	v, err := OpenVault(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	defer v.Close()

	fp := NewFingerprint()
	ran := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, v.Store(testarchive(fp, ran)))

	got, err := v.Fetch(fp)
	require.NoError(t, err)

	assert.Equal(t, fp, got.RunID)
	assert.True(t, got.Ran.Equal(ran))
	assert.Equal(t, 4, got.Config.LDATopics)
	assert.Equal(t, []string{"WEST", "EAST"}, got.Regions)
	assert.Equal(t, [][]int{{3, 0, 1, 0}, {0, 2, 0, 2}}, got.DocSums)
	assert.Equal(t, [][]int{{3, 0}, {0, 2}, {1, 0}, {0, 2}}, got.Topics)
	assert.InDelta(t, 0.75, got.ThetaRow[0][0], 1e-12)
}

func TestVaultFetchUnknown(t *testing.T) {
	v, err := OpenVault(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	defer v.Close()

	_, err = v.Fetch("no-such-fingerprint")
	assert.Error(t, err)
}

func TestVaultListNewestFirst(t *testing.T) {
	v, err := OpenVault(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	defer v.Close()

	older := NewFingerprint()
	newer := NewFingerprint()
	require.NoError(t, v.Store(testarchive(older, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, v.Store(testarchive(newer, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))))

	fps, err := v.List()
	require.NoError(t, err)
	require.Len(t, fps, 2)
	assert.Equal(t, newer, fps[0])
	assert.Equal(t, older, fps[1])
}

func TestVaultReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	v, err := OpenVault(path)
	require.NoError(t, err)
	fp := NewFingerprint()
	require.NoError(t, v.Store(testarchive(fp, time.Now())))
	require.NoError(t, v.Close())

	v2, err := OpenVault(path)
	require.NoError(t, err)
	defer v2.Close()

	got, err := v2.Fetch(fp)
	require.NoError(t, err)
	assert.Equal(t, fp, got.RunID)
}
