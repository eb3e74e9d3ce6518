package dataprocessing

import (
	"strings"

	"scorepanel/pkg/contracts/domain"
)

// NormalizeName is the comparison key between a school field and a regional
// name: surrounding whitespace removed, upper-cased.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SplitBaseline separates the regional aggregate row from the school rows.
// The aggregate row is the one whose school field equals the regional name.
// When several rows match, the first one is the baseline and the others are
// dropped; when none match, baseline is nil. School order is preserved.
func SplitBaseline(records []domain.Record, regional string) (schools []domain.Record, baseline *domain.Record) {
	key := NormalizeName(regional)
	schools = make([]domain.Record, 0, len(records))
	for i := range records {
		if NormalizeName(records[i].School()) == key {
			if baseline == nil {
				b := records[i]
				baseline = &b
			}
			continue
		}
		schools = append(schools, records[i])
	}
	return schools, baseline
}

// FindSchool returns the first record whose school field equals name
func FindSchool(records []domain.Record, name string) (domain.Record, bool) {
	for _, r := range records {
		if r.School() == name {
			return r, true
		}
	}
	return domain.Record{}, false
}

// SearchSchool returns the first option containing term, case-insensitively.
// An empty term never matches.
func SearchSchool(options []string, term string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return "", false
	}
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), needle) {
			return opt, true
		}
	}
	return "", false
}
