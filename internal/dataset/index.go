package dataset

// Index maps region codes to metric records. It is built once per metric
// dataset; the first record for a code wins and later ones are remembered
// only as duplicates.
type Index struct {
	byCode     map[string]MetricRecord
	duplicates []string
	total      int
}

func NewIndex(records []MetricRecord) *Index {
	ix := &Index{
		byCode: make(map[string]MetricRecord, len(records)),
		total:  len(records),
	}
	dupSeen := make(map[string]struct{})
	for _, r := range records {
		if _, ok := ix.byCode[r.Code]; ok {
			if _, reported := dupSeen[r.Code]; !reported {
				dupSeen[r.Code] = struct{}{}
				ix.duplicates = append(ix.duplicates, r.Code)
			}
			continue
		}
		ix.byCode[r.Code] = r
	}
	return ix
}

// Lookup is safe on a nil Index, which matches nothing.
func (ix *Index) Lookup(code string) (MetricRecord, bool) {
	if ix == nil {
		return MetricRecord{}, false
	}
	r, ok := ix.byCode[code]
	return r, ok
}

// Duplicates lists codes that appeared more than once, in first-seen order.
func (ix *Index) Duplicates() []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.duplicates...)
}

// Len is the number of distinct codes.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.byCode)
}

// Records is the size of the dataset the index was built from.
func (ix *Index) Records() int {
	if ix == nil {
		return 0
	}
	return ix.total
}
