package models

import (
	"testing"
	"time"
)

func TestLadderDuration(t *testing.T) {
	tests := []struct {
		n    uint
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 5},
		{3, 15},
		{4, 30},
		{5, 60},
		{6, 60},
		{1 << 40, 60},
	}

	for _, tt := range tests {
		if got := LadderDuration(tt.n); got != tt.want {
			t.Errorf("LadderDuration(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestWarning_ActiveAt(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	w := &Warning{ID: "w1", BanDuration: 5, CreatedAt: created}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before window", created.Add(-time.Second), false},
		{"window start", created, true},
		{"inside", created.Add(4*time.Minute + 59*time.Second), true},
		{"window end is exclusive", created.Add(5 * time.Minute), false},
		{"after", created.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.ActiveAt(tt.at); got != tt.want {
				t.Errorf("ActiveAt = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("zero duration never active", func(t *testing.T) {
		z := &Warning{BanDuration: 0, CreatedAt: created}
		if z.ActiveAt(created) {
			t.Error("zero-duration warning reported active")
		}
	})
}

func TestEscalation_Next(t *testing.T) {
	count, dur := EscalationOf(nil).Next()
	if count != 1 || dur != 0 {
		t.Errorf("clean.Next() = (%d, %d), want (1, 0)", count, dur)
	}

	e := EscalationOf(&Warning{BanCount: 5, BanDuration: 60})
	if e.State != StateWarned {
		t.Fatalf("state = %v, want warned", e.State)
	}
	count, dur = e.Next()
	if count != 6 || dur != 60 {
		t.Errorf("warned(5).Next() = (%d, %d), want (6, 60)", count, dur)
	}
}

func TestIssueWarningInput_Validate(t *testing.T) {
	long := make([]rune, MaxWarningReasonLength+1)
	for i := range long {
		long[i] = 'ş'
	}

	tests := []struct {
		name    string
		in      IssueWarningInput
		wantErr bool
	}{
		{"ok", IssueWarningInput{TargetKind: TargetUser, TargetID: "bob", Reason: "spam"}, false},
		{"bad kind", IssueWarningInput{TargetKind: "channel", TargetID: "x", Reason: "spam"}, true},
		{"no target", IssueWarningInput{TargetKind: TargetGroup, Reason: "spam"}, true},
		{"blank reason", IssueWarningInput{TargetKind: TargetUser, TargetID: "bob", Reason: "   "}, true},
		{"reason too long", IssueWarningInput{TargetKind: TargetUser, TargetID: "bob", Reason: string(long)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
