package record

import "sort"

// Corpus is the ordered collection of records across academic years.
// Records may be collected in any order (documents are processed
// independently); Sort establishes the chronological order cross-year
// consumers rely on.
type Corpus []*Record

// Sort orders the corpus chronologically by academic year. The year token's
// lexicographic order matches its chronological order.
func (c Corpus) Sort() {
	sort.Slice(c, func(i, j int) bool {
		return c[i].AcademicYear < c[j].AcademicYear
	})
}

// Years returns the academic years in corpus order.
func (c Corpus) Years() []string {
	years := make([]string, len(c))
	for i, r := range c {
		years[i] = r.AcademicYear
	}
	return years
}

// ByYear returns the record for one academic year, if present.
func (c Corpus) ByYear(year string) (*Record, bool) {
	for _, r := range c {
		if r.AcademicYear == year {
			return r, true
		}
	}
	return nil, false
}
