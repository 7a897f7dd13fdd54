package models

// Uyarı / ban merdiveni.
//
// Her (target_kind, target_id) için tek bir canlı Warning kaydı vardır.
// Tekrar eden ihlal kaydı yerinde günceller: ban_count bir artar, süre
// merdivenden yeniden hesaplanır ve created_at yenilenir (pencere baştan başlar).
//
// Ban "durumu" saklanmaz; sorgu anında [created_at, created_at+süre) penceresinden hesaplanır.

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TargetKind, moderasyon hedefinin türü.
type TargetKind string

const (
	TargetUser  TargetKind = "user"
	TargetGroup TargetKind = "group"
)

// Valid, hedef türünün bilinen bir değer olup olmadığını döner.
func (k TargetKind) Valid() bool {
	return k == TargetUser || k == TargetGroup
}

// banLadder, ardışık ihlallerde uygulanan ban süreleri (dakika).
var banLadder = [...]int{0, 5, 15, 30, 60}

// LadderDuration, n'inci ihlalin ban süresini (dakika) döner.
// n 1'den başlar; n=0 ilk basamak gibi ele alınır. Merdiven aşılırsa son basamakta kalır.
func LadderDuration(n uint) int {
	if n == 0 {
		return banLadder[0]
	}
	idx := n - 1
	if last := uint(len(banLadder) - 1); idx > last {
		idx = last
	}
	return banLadder[idx]
}

// MaxWarningReasonLength, uyarı gerekçesi üst sınırı (rune).
const MaxWarningReasonLength = 512

// Warning, bir hedefe ait moderasyon kaydı.
type Warning struct {
	ID          string     `json:"id"`
	TargetKind  TargetKind `json:"target_kind"`
	TargetID    string     `json:"target_id"`
	Reason      string     `json:"reason"`
	BanDuration int        `json:"ban_duration"` // dakika
	BanCount    int        `json:"ban_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BanWindow, bir ban'ın etkin olduğu yarı açık aralık: [Start, End).
type BanWindow struct {
	WarningID string    `json:"warning_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// Window, kaydın ban penceresini döner. Süre 0 ise pencere boştur.
func (w *Warning) Window() BanWindow {
	return BanWindow{
		WarningID: w.ID,
		Start:     w.CreatedAt,
		End:       w.CreatedAt.Add(time.Duration(w.BanDuration) * time.Minute),
	}
}

// ActiveAt, t anında ban penceresinin açık olup olmadığını döner.
func (w *Warning) ActiveAt(t time.Time) bool {
	if w.BanDuration <= 0 {
		return false
	}
	win := w.Window()
	return !t.Before(win.Start) && t.Before(win.End)
}

// EscalationState, bir hedefin merdivendeki yeri.
type EscalationState int

const (
	// StateClean: hedef için hiç kayıt yok.
	StateClean EscalationState = iota
	// StateWarned: kayıt var; Count kaçıncı ihlalde olduğunu söyler.
	StateWarned
)

func (s EscalationState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateWarned:
		return "warned"
	}
	return "unknown"
}

// Escalation, bir işlem başında saklı kayıttan bir kez türetilen durum.
type Escalation struct {
	State   EscalationState
	Current *Warning // StateClean için nil
}

// EscalationOf, saklı kayıttan durumu türetir. w nil ise Clean.
func EscalationOf(w *Warning) Escalation {
	if w == nil {
		return Escalation{State: StateClean}
	}
	return Escalation{State: StateWarned, Current: w}
}

// Next, bir sonraki ihlalin sayacını ve süresini döner.
func (e Escalation) Next() (count int, duration int) {
	count = 1
	if e.State == StateWarned {
		count = e.Current.BanCount + 1
	}
	return count, LadderDuration(uint(count))
}

// IssueWarningInput, uyarı verme isteği.
type IssueWarningInput struct {
	TargetKind TargetKind `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	Reason     string     `json:"reason"`
	ReportID   *string    `json:"report_id"` // uyarı bir rapora yanıt olarak veriliyorsa
}

// Validate, IssueWarningInput kontrolü.
func (in *IssueWarningInput) Validate() error {
	if !in.TargetKind.Valid() {
		return fmt.Errorf("invalid target kind %q", in.TargetKind)
	}
	if strings.TrimSpace(in.TargetID) == "" {
		return fmt.Errorf("target id is required")
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if utf8.RuneCountInString(in.Reason) > MaxWarningReasonLength {
		return fmt.Errorf("reason must be at most %d characters", MaxWarningReasonLength)
	}
	return nil
}
