//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/BiotopeGoServer/internal/str"
)

func TestToken(t *testing.T) {
	assert.Equal(t, "fagaceae_quercus_robur", Token("Fagaceae", "Quercus robur"))
	assert.Equal(t, "pinaceae_pinus_sylvestris", Token("  Pinaceae ", "Pinus   sylvestris"))
	assert.Equal(t, "asteraceae_indet_sp", Token("ASTERACEAE", "indet sp"))
}

func mkpoint(region string, family string, species string) str.AssignedPoint {
	return str.AssignedPoint{
		Occ:      str.OccurrenceRecord{Family: family, Species: species},
		Region:   region,
		Assigned: region != "",
	}
}

func TestBuildCorpus(t *testing.T) {
	var points []str.AssignedPoint
	for i := 0; i < 4; i++ {
		points = append(points, mkpoint("ALPHA", "fagaceae", "quercus robur"))
	}
	points = append(points, mkpoint("BETA", "pinaceae", "pinus sylvestris"))
	points = append(points, mkpoint("", "pinaceae", "pinus sylvestris")) // outside every region

	docs, err := BuildCorpus(points, 2)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ALPHA", docs[0].Region)
	assert.Equal(t, 4, docs[0].Counts["fagaceae_quercus_robur"])
	assert.Equal(t, 4, docs[0].TokenTotal())
}

func TestBuildCorpusMinTokenBoundary(t *testing.T) {
	// a document exactly at the threshold stays; one token short goes
	var points []str.AssignedPoint
	for i := 0; i < 10; i++ {
		points = append(points, mkpoint("KEEP", "fagaceae", "quercus robur"))
	}
	for i := 0; i < 9; i++ {
		points = append(points, mkpoint("DROP", "pinaceae", "pinus sylvestris"))
	}

	docs, err := BuildCorpus(points, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "KEEP", docs[0].Region)
}

func TestBuildCorpusPreservesRegionOrder(t *testing.T) {
	var points []str.AssignedPoint
	points = append(points, mkpoint("ZULU", "a", "b"))
	points = append(points, mkpoint("ALPHA", "a", "b"))
	points = append(points, mkpoint("ZULU", "a", "c"))

	docs, err := BuildCorpus(points, 1)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "ZULU", docs[0].Region)
	assert.Equal(t, "ALPHA", docs[1].Region)
}

func TestBuildCorpusEmpty(t *testing.T) {
	_, err := BuildCorpus(nil, 10)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// every point unassigned is just as empty
	points := []str.AssignedPoint{mkpoint("", "a", "b")}
	_, err = BuildCorpus(points, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
