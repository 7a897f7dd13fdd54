package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ReportKind, raporun neyi hedeflediği.
type ReportKind string

const (
	ReportUser  ReportKind = "user"
	ReportGroup ReportKind = "group"
	ReportBug   ReportKind = "bug"
)

// TargetKind, rapor türünün moderasyon hedef türünü döner. Bug raporları için ok=false.
func (k ReportKind) TargetKind() (TargetKind, bool) {
	switch k {
	case ReportUser:
		return TargetUser, true
	case ReportGroup:
		return TargetGroup, true
	}
	return "", false
}

// ReportStatus: pending → resolved, tam olarak bir kez.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
)

// Severity, raporu gönderenin belirttiği önem derecesi.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Report, bir kullanıcının dosyaladığı şikayet veya hata bildirimi.
type Report struct {
	ID          string       `json:"id"`
	Reporter    string       `json:"reporter"`
	Kind        ReportKind   `json:"kind"`
	TargetKind  *TargetKind  `json:"target_kind"` // bug raporunda nil
	TargetID    *string      `json:"target_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Severity    Severity     `json:"severity"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ResolvedAt  *time.Time   `json:"resolved_at"`
}

// FileReportInput, rapor dosyalama isteği.
type FileReportInput struct {
	Kind        ReportKind `json:"kind"`
	TargetID    string     `json:"target_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
}

const (
	MaxReportTitleLength       = 120
	MaxReportDescriptionLength = 2000
)

// Validate, FileReportInput kontrolü. Boş severity "low" olarak kabul edilir.
func (in *FileReportInput) Validate() error {
	in.Description = strings.TrimSpace(in.Description)
	in.Title = strings.TrimSpace(in.Title)
	in.TargetID = strings.TrimSpace(in.TargetID)

	if in.Severity == "" {
		in.Severity = SeverityLow
	}
	if !in.Severity.Valid() {
		return fmt.Errorf("invalid severity %q", in.Severity)
	}
	if in.Description == "" {
		return fmt.Errorf("description is required")
	}
	if utf8.RuneCountInString(in.Description) > MaxReportDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", MaxReportDescriptionLength)
	}
	if utf8.RuneCountInString(in.Title) > MaxReportTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxReportTitleLength)
	}

	switch in.Kind {
	case ReportBug:
		if in.TargetID != "" {
			return fmt.Errorf("bug reports cannot have a target")
		}
		if in.Title == "" {
			return fmt.Errorf("title is required for bug reports")
		}
	case ReportUser, ReportGroup:
		if in.TargetID == "" {
			return fmt.Errorf("target id is required")
		}
	default:
		return fmt.Errorf("invalid report kind %q", in.Kind)
	}
	return nil
}
