package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *Record
		wantErr error
	}{
		{
			name: "valid record",
			record: &Record{
				ID:      "men_100:12",
				RawText: "编号12\n81年，180，85",
			},
			wantErr: nil,
		},
		{
			name: "valid record without extracted fields",
			record: &Record{
				ID:      "men_100:#3",
				RawText: "text",
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "empty identifier",
			record: &Record{
				RawText: "text",
			},
			wantErr: ErrEmptyIdentifier,
		},
		{
			name: "empty raw text",
			record: &Record{
				ID: "men_100:12",
			},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRecord() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCheckpointState(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		state   *CheckpointState
		wantErr error
	}{
		{
			name:    "empty state",
			state:   NewCheckpointState("run", now),
			wantErr: nil,
		},
		{
			name: "legacy state without version",
			state: &CheckpointState{
				Completed: map[string]time.Time{"men_100:1": now},
			},
			wantErr: nil,
		},
		{
			name:    "nil state",
			state:   nil,
			wantErr: ErrInvalidCheckpoint,
		},
		{
			name: "future version",
			state: &CheckpointState{
				Version: CheckpointVersion + 1,
			},
			wantErr: ErrUnsupportedVersion,
		},
		{
			name: "empty completed identifier",
			state: &CheckpointState{
				Completed: map[string]time.Time{"": now},
			},
			wantErr: ErrEmptyIdentifier,
		},
		{
			name: "identifier in both sets",
			state: &CheckpointState{
				Completed: map[string]time.Time{"men_100:1": now},
				Failed:    map[string]*FailedEntry{"men_100:1": {AttemptCount: 1}},
			},
			wantErr: ErrOverlappingEntry,
		},
		{
			name: "nil failed entry",
			state: &CheckpointState{
				Failed: map[string]*FailedEntry{"men_100:2": nil},
			},
			wantErr: ErrInvalidCheckpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCheckpointState(tt.state)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCheckpointState() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCheckpointState() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
