package core

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BlockID derives the record identifier for a block: the document stem plus
// the source label, or plus "#<sequence>" when the block has no label.
func BlockID(block RawBlock) string {
	stem := strings.TrimSuffix(block.Document, filepath.Ext(block.Document))
	if block.SourceLabel != nil {
		return stem + ":" + *block.SourceLabel
	}
	return stem + ":#" + strconv.Itoa(block.SequenceID)
}

// NewRecord builds a Record from a block and its extracted fields.
// Overrides take precedence over extracted values. Derived attributes are
// always recomputed from their source fields.
func NewRecord(block RawBlock, extracted, overrides Fields, now time.Time) *Record {
	fields := extracted.Merge(overrides)
	r := &Record{
		ID:          BlockID(block),
		Document:    block.Document,
		SequenceID:  block.SequenceID,
		SourceLabel: block.SourceLabel,
		RawText:     block.Text,
		ContentHash: ContentHash(block.Text),
		Fields:      fields,
	}
	r.Derive(now)
	return r
}

// Derive recomputes age, BMI and the normalized hobby views from the
// record's fields.
func (r *Record) Derive(now time.Time) {
	r.Age = nil
	if r.BirthYear != nil {
		if year, ok := ExpandBirthYear(*r.BirthYear); ok {
			r.Age = Ptr(now.Year() - year)
		}
	}

	r.BMI = nil
	if r.HeightCM != nil && r.WeightKG != nil {
		if bmi, ok := ComputeBMI(*r.HeightCM, *r.WeightKG); ok {
			r.BMI = &bmi
		}
	}

	r.HobbiesNormalized = nil
	r.Interests = nil
	if r.Hobbies != nil {
		if normalized := NormalizeHobbies(*r.Hobbies); normalized != "" {
			r.HobbiesNormalized = &normalized
		}
		r.Interests = ExtractInterests(*r.Hobbies)
	}
}

// ExpandBirthYear parses a birth year string of digits. Years below 100 are
// two-digit years: values above 30 map to the 1900s, the rest to the 2000s.
func ExpandBirthYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if year < 100 {
		if year > 30 {
			year += 1900
		} else {
			year += 2000
		}
	}
	return year, true
}

// ComputeBMI returns weight / (height in metres)^2 rounded to one decimal.
func ComputeBMI(heightCM, weightKG float64) (float64, bool) {
	if !(heightCM > 0) || math.IsNaN(weightKG) || math.IsInf(weightKG, 0) {
		return 0, false
	}
	m := heightCM / 100
	return math.Round(weightKG/(m*m)*10) / 10, true
}
