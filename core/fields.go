package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Field names shared by the extraction prompt, the service response and the
// output table.
const (
	FieldGender             = "gender"
	FieldBirthYear          = "birth_year"
	FieldZodiac             = "zodiac"
	FieldMBTI               = "mbti"
	FieldHeightCM           = "height_cm"
	FieldWeightKG           = "weight_kg"
	FieldHometown           = "hometown"
	FieldCurrentLocation    = "current_location"
	FieldEducation          = "education"
	FieldOccupation         = "occupation"
	FieldAnnualIncome       = "annual_income"
	FieldHobbies            = "hobbies"
	FieldPersonality        = "personality"
	FieldHasHouse           = "has_house"
	FieldHasCar             = "has_car"
	FieldMaritalStatus      = "marital_status"
	FieldPartnerPreferences = "partner_preferences"
	FieldSelfIntroduction   = "self_introduction"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// FieldsFromMap coerces a loosely typed service response into Fields.
// Unknown keys are ignored and values that cannot be coerced are left absent.
func FieldsFromMap(m map[string]any) Fields {
	var f Fields
	if len(m) == 0 {
		return f
	}

	f.Gender = stringValue(m[FieldGender])
	f.BirthYear = stringValue(m[FieldBirthYear])
	f.Zodiac = stringValue(m[FieldZodiac])
	f.MBTI = stringValue(m[FieldMBTI])
	f.HeightCM = numberValue(m[FieldHeightCM])
	f.WeightKG = numberValue(m[FieldWeightKG])
	f.Hometown = stringValue(m[FieldHometown])
	f.CurrentLocation = stringValue(m[FieldCurrentLocation])
	f.Education = stringValue(m[FieldEducation])
	f.Occupation = stringValue(m[FieldOccupation])
	f.AnnualIncome = stringValue(m[FieldAnnualIncome])
	f.Hobbies = stringValue(m[FieldHobbies])
	f.Personality = stringValue(m[FieldPersonality])
	f.HasHouse = boolValue(m[FieldHasHouse])
	f.HasCar = boolValue(m[FieldHasCar])
	f.MaritalStatus = stringValue(m[FieldMaritalStatus])
	f.PartnerPreferences = stringValue(m[FieldPartnerPreferences])
	f.SelfIntroduction = stringValue(m[FieldSelfIntroduction])
	return f
}

// Merge returns a copy of f where every non-nil attribute of overrides wins.
func (f Fields) Merge(overrides Fields) Fields {
	out := f
	if overrides.Gender != nil {
		out.Gender = overrides.Gender
	}
	if overrides.BirthYear != nil {
		out.BirthYear = overrides.BirthYear
	}
	if overrides.Zodiac != nil {
		out.Zodiac = overrides.Zodiac
	}
	if overrides.MBTI != nil {
		out.MBTI = overrides.MBTI
	}
	if overrides.HeightCM != nil {
		out.HeightCM = overrides.HeightCM
	}
	if overrides.WeightKG != nil {
		out.WeightKG = overrides.WeightKG
	}
	if overrides.Hometown != nil {
		out.Hometown = overrides.Hometown
	}
	if overrides.CurrentLocation != nil {
		out.CurrentLocation = overrides.CurrentLocation
	}
	if overrides.Education != nil {
		out.Education = overrides.Education
	}
	if overrides.Occupation != nil {
		out.Occupation = overrides.Occupation
	}
	if overrides.AnnualIncome != nil {
		out.AnnualIncome = overrides.AnnualIncome
	}
	if overrides.Hobbies != nil {
		out.Hobbies = overrides.Hobbies
	}
	if overrides.Personality != nil {
		out.Personality = overrides.Personality
	}
	if overrides.HasHouse != nil {
		out.HasHouse = overrides.HasHouse
	}
	if overrides.HasCar != nil {
		out.HasCar = overrides.HasCar
	}
	if overrides.MaritalStatus != nil {
		out.MaritalStatus = overrides.MaritalStatus
	}
	if overrides.PartnerPreferences != nil {
		out.PartnerPreferences = overrides.PartnerPreferences
	}
	if overrides.SelfIntroduction != nil {
		out.SelfIntroduction = overrides.SelfIntroduction
	}
	return out
}

// IsEmpty reports whether no attribute is set.
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

func stringValue(v any) *string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") {
			return nil
		}
		return &s
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	case json.Number:
		s := t.String()
		return &s
	}
	return nil
}

func numberValue(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case json.Number:
		if n, err := t.Float64(); err == nil {
			return &n
		}
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return &n
		}
	}
	return nil
}

func boolValue(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return &b
		}
	}
	return nil
}
