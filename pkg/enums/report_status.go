package enums

import "fmt"

// ReportStatus tracks the moderation lifecycle of a content report. Reports
// open as PENDING and a moderator closes them as APPROVED or REJECTED.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusApproved ReportStatus = "APPROVED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

var validReportStatuses = []ReportStatus{
	ReportStatusPending,
	ReportStatusApproved,
	ReportStatusRejected,
}

// String implements fmt.Stringer.
func (s ReportStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReportStatus.
func (s ReportStatus) IsValid() bool {
	for _, candidate := range validReportStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsResolution reports whether the status closes a report.
func (s ReportStatus) IsResolution() bool {
	return s == ReportStatusApproved || s == ReportStatusRejected
}

// ParseReportStatus converts raw input into a ReportStatus.
func ParseReportStatus(value string) (ReportStatus, error) {
	for _, candidate := range validReportStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report status %q", value)
}
