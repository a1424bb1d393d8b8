package sink

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/975125089bb/flutter-app/core"
)

// Columns is the fixed header of the output table.
var Columns = []string{
	"id",
	"document",
	"sequence_id",
	"source_label",
	"raw_text",
	core.FieldGender,
	core.FieldBirthYear,
	"age",
	core.FieldZodiac,
	core.FieldMBTI,
	core.FieldHeightCM,
	core.FieldWeightKG,
	"bmi",
	core.FieldHometown,
	core.FieldCurrentLocation,
	core.FieldEducation,
	core.FieldOccupation,
	core.FieldAnnualIncome,
	core.FieldHobbies,
	"hobbies_normalized",
	"interests",
	core.FieldPersonality,
	core.FieldHasHouse,
	core.FieldHasCar,
	core.FieldMaritalStatus,
	core.FieldPartnerPreferences,
	core.FieldSelfIntroduction,
	"content_hash",
}

func toRow(r *core.Record) []string {
	return []string{
		r.ID,
		r.Document,
		strconv.Itoa(r.SequenceID),
		str(r.SourceLabel),
		r.RawText,
		str(r.Gender),
		str(r.BirthYear),
		integer(r.Age),
		str(r.Zodiac),
		str(r.MBTI),
		float(r.HeightCM),
		float(r.WeightKG),
		float(r.BMI),
		str(r.Hometown),
		str(r.CurrentLocation),
		str(r.Education),
		str(r.Occupation),
		str(r.AnnualIncome),
		str(r.Hobbies),
		str(r.HobbiesNormalized),
		strings.Join(r.Interests, core.HobbySeparator),
		str(r.Personality),
		boolean(r.HasHouse),
		boolean(r.HasCar),
		str(r.MaritalStatus),
		str(r.PartnerPreferences),
		str(r.SelfIntroduction),
		r.ContentHash,
	}
}

// fromRow rebuilds a record from its source columns. The age, bmi,
// hobbies_normalized and interests columns are ignored and recomputed as of
// now.
func fromRow(row []string, now time.Time) (*core.Record, error) {
	if len(row) != len(Columns) {
		return nil, fmt.Errorf("%w: %d fields, want %d", ErrMalformedRow, len(row), len(Columns))
	}
	seq, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, fmt.Errorf("%w: sequence_id %q", ErrMalformedRow, row[2])
	}

	r := &core.Record{
		ID:          row[0],
		Document:    row[1],
		SequenceID:  seq,
		SourceLabel: parseStr(row[3]),
		RawText:     row[4],
		ContentHash: row[27],
		Fields: core.Fields{
			Gender:             parseStr(row[5]),
			BirthYear:          parseStr(row[6]),
			Zodiac:             parseStr(row[8]),
			MBTI:               parseStr(row[9]),
			HeightCM:           parseFloat(row[10]),
			WeightKG:           parseFloat(row[11]),
			Hometown:           parseStr(row[13]),
			CurrentLocation:    parseStr(row[14]),
			Education:          parseStr(row[15]),
			Occupation:         parseStr(row[16]),
			AnnualIncome:       parseStr(row[17]),
			Hobbies:            parseStr(row[18]),
			Personality:        parseStr(row[21]),
			HasHouse:           parseBool(row[22]),
			HasCar:             parseBool(row[23]),
			MaritalStatus:      parseStr(row[24]),
			PartnerPreferences: parseStr(row[25]),
			SelfIntroduction:   parseStr(row[26]),
		},
	}
	if err := core.ValidateRecord(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	r.Derive(now)
	return r, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func integer(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func float(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func boolean(p *bool) string {
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}

func parseStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseBool(s string) *bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}
