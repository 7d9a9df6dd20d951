//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// OccurrenceRecord - one georeferenced determination of a taxon; immutable once ingested
type OccurrenceRecord struct {
	ID      string
	Lat     float64
	Lon     float64
	Family  string
	Species string
}

// AssignedPoint - an OccurrenceRecord after the spatial join; Region is "" when the point
// fell outside every polygon
type AssignedPoint struct {
	Occ      OccurrenceRecord
	Region   string
	Assigned bool
}

// Document - the token-count profile of one region; mutated only by the vocabulary filter
type Document struct {
	Region string
	Counts map[string]int
}

// TokenTotal - the document length in tokens
func (d *Document) TokenTotal() int {
	t := 0
	for _, c := range d.Counts {
		t += c
	}
	return t
}

// Vocabulary - term string <-> dense integer index; built once from the filtered corpus
type Vocabulary struct {
	Index map[string]int
	Terms []string
}

func (v *Vocabulary) Size() int {
	return len(v.Terms)
}
