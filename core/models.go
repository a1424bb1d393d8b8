package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ContentHash returns a hex BLAKE2b-256 digest of text.
// Identical block text always produces the same hash.
func ContentHash(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// RawBlock is a single profile entry cut out of a larger document.
type RawBlock struct {
	Document    string  // Base name of the source document
	SequenceID  int     // 1-based position among all marker splits
	SourceLabel *string // Number from the heading line; "None" when the heading has no digits
	Text        string
}

// Fields holds the attributes returned by the extraction service.
// A nil pointer means the attribute was not mentioned.
type Fields struct {
	Gender             *string  `json:"gender,omitempty"`
	BirthYear          *string  `json:"birth_year,omitempty"`
	Zodiac             *string  `json:"zodiac,omitempty"`
	MBTI               *string  `json:"mbti,omitempty"`
	HeightCM           *float64 `json:"height_cm,omitempty"`
	WeightKG           *float64 `json:"weight_kg,omitempty"`
	Hometown           *string  `json:"hometown,omitempty"`
	CurrentLocation    *string  `json:"current_location,omitempty"`
	Education          *string  `json:"education,omitempty"`
	Occupation         *string  `json:"occupation,omitempty"`
	AnnualIncome       *string  `json:"annual_income,omitempty"`
	Hobbies            *string  `json:"hobbies,omitempty"`
	Personality        *string  `json:"personality,omitempty"`
	HasHouse           *bool    `json:"has_house,omitempty"`
	HasCar             *bool    `json:"has_car,omitempty"`
	MaritalStatus      *string  `json:"marital_status,omitempty"`
	PartnerPreferences *string  `json:"partner_preferences,omitempty"`
	SelfIntroduction   *string  `json:"self_introduction,omitempty"`
}

// Record is the enriched unit written to the output table.
// Age, BMI, HobbiesNormalized and Interests are derived by NewRecord and
// never set directly.
type Record struct {
	ID          string
	Document    string
	SequenceID  int
	SourceLabel *string
	RawText     string
	ContentHash string

	Fields

	Age               *int
	BMI               *float64
	HobbiesNormalized *string
	Interests         []string
}

// FailedEntry tracks repeated failures for one identifier.
type FailedEntry struct {
	AttemptCount int       `json:"attempt_count"`
	Timestamp    time.Time `json:"timestamp"`
	LastError    string    `json:"last_error"`
}

// Timestamps records when a checkpoint was created and last written.
type Timestamps struct {
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals are running counters carried across resumed runs.
type Totals struct {
	Succeeded    int `json:"succeeded"`
	Failed       int `json:"failed"`
	SkippedDone  int `json:"skipped_done"`
	SkippedRetry int `json:"skipped_retry"`
	Collisions   int `json:"collisions"`
	Flushes      int `json:"flushes"`
}

// CheckpointVersion is the current persisted checkpoint layout.
const CheckpointVersion = 1

// CheckpointState is the resumable bookkeeping of a pipeline run.
// An identifier appears in at most one of Completed and Failed.
type CheckpointState struct {
	Version    int                     `json:"version"`
	RunID      string                  `json:"run_id"`
	Completed  map[string]time.Time    `json:"completed_profiles"`
	Failed     map[string]*FailedEntry `json:"failed_profiles"`
	Timestamps Timestamps              `json:"timestamps"`
	Totals     Totals                  `json:"totals"`
}

// NewCheckpointState returns an empty state stamped with now.
func NewCheckpointState(runID string, now time.Time) *CheckpointState {
	return &CheckpointState{
		Version:   CheckpointVersion,
		RunID:     runID,
		Completed: make(map[string]time.Time),
		Failed:    make(map[string]*FailedEntry),
		Timestamps: Timestamps{
			StartedAt: now,
			UpdatedAt: now,
		},
	}
}
