package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBirthYear(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "81", want: 1981, wantOK: true},
		{in: "04", want: 2004, wantOK: true},
		{in: "1996", want: 1996, wantOK: true},
		{in: "2000", want: 2000, wantOK: true},
		{in: "30", want: 2030, wantOK: true},
		{in: "31", want: 1931, wantOK: true},
		{in: " 90 ", want: 1990, wantOK: true},
		{in: "", wantOK: false},
		{in: "81年", wantOK: false},
		{in: "-81", wantOK: false},
		{in: "unknown", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExpandBirthYear(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestComputeBMI(t *testing.T) {
	bmi, ok := ComputeBMI(180, 85)
	require.True(t, ok)
	assert.Equal(t, 26.2, bmi)

	_, ok = ComputeBMI(0, 85)
	assert.False(t, ok)

	_, ok = ComputeBMI(-170, 60)
	assert.False(t, ok)
}

func TestBlockID(t *testing.T) {
	t.Run("with label", func(t *testing.T) {
		id := BlockID(RawBlock{Document: "men_100.md", SequenceID: 3, SourceLabel: Ptr("12")})
		assert.Equal(t, "men_100:12", id)
	})

	t.Run("without label", func(t *testing.T) {
		id := BlockID(RawBlock{Document: "women_2.md", SequenceID: 7})
		assert.Equal(t, "women_2:#7", id)
	})

	t.Run("None label is kept as is", func(t *testing.T) {
		id := BlockID(RawBlock{Document: "men_100.md", SequenceID: 4, SourceLabel: Ptr("None")})
		assert.Equal(t, "men_100:None", id)
	})
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	block := RawBlock{
		Document:    "men_100.md",
		SequenceID:  2,
		SourceLabel: Ptr("12"),
		Text:        "编号12\n81年生，身高180，体重85",
	}

	t.Run("derives age and bmi", func(t *testing.T) {
		extracted := Fields{
			BirthYear: Ptr("81"),
			HeightCM:  Ptr(180.0),
			WeightKG:  Ptr(85.0),
			Hobbies:   Ptr("游泳，读书，游泳读书，摄影"),
		}

		r := NewRecord(block, extracted, Fields{}, now)

		assert.Equal(t, "men_100:12", r.ID)
		assert.Equal(t, block.Text, r.RawText)
		assert.Equal(t, ContentHash(block.Text), r.ContentHash)
		require.NotNil(t, r.Age)
		assert.Equal(t, 2025-1981, *r.Age)
		require.NotNil(t, r.BMI)
		assert.Equal(t, 26.2, *r.BMI)
		require.NotNil(t, r.HobbiesNormalized)
		assert.Equal(t, "摄影，游泳，游泳读书，读书", *r.HobbiesNormalized)
		assert.Equal(t, []string{"游泳", "读书", "摄影"}, r.Interests)
	})

	t.Run("bmi absent without weight", func(t *testing.T) {
		r := NewRecord(block, Fields{HeightCM: Ptr(180.0)}, Fields{}, now)
		assert.Nil(t, r.BMI)
	})

	t.Run("age absent for malformed year", func(t *testing.T) {
		r := NewRecord(block, Fields{BirthYear: Ptr("八一")}, Fields{}, now)
		assert.Nil(t, r.Age)
		require.NotNil(t, r.BirthYear)
	})

	t.Run("override wins over extracted value", func(t *testing.T) {
		r := NewRecord(block, Fields{Gender: Ptr("女")}, Fields{Gender: Ptr("男")}, now)
		require.NotNil(t, r.Gender)
		assert.Equal(t, "男", *r.Gender)
	})

	t.Run("derived values are recomputed", func(t *testing.T) {
		r := NewRecord(block, Fields{BirthYear: Ptr("1996")}, Fields{}, now)
		r.Age = Ptr(99)
		r.Derive(now)
		assert.Equal(t, 2025-1996, *r.Age)
	})
}
