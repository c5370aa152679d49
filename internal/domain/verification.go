package domain

import "time"

// VerificationStatus tracks review state for submitted records.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether the status is a known value.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// DocumentSet holds external storage references for the scanned documents
// of one employee. Files are uploaded elsewhere; only URLs are stored.
type DocumentSet struct {
	AadhaarFront string
	AadhaarBack  string
	PANCard      string
	Passbook     string
	Photo        string
}

// Empty reports whether no document reference has been provided.
func (d DocumentSet) Empty() bool {
	return d.AadhaarFront == "" && d.AadhaarBack == "" && d.PANCard == "" &&
		d.Passbook == "" && d.Photo == ""
}

// Merge overlays the non-empty references of other on top of d, so a
// partial re-submission never drops previously uploaded files.
func (d DocumentSet) Merge(other DocumentSet) DocumentSet {
	if other.AadhaarFront != "" {
		d.AadhaarFront = other.AadhaarFront
	}
	if other.AadhaarBack != "" {
		d.AadhaarBack = other.AadhaarBack
	}
	if other.PANCard != "" {
		d.PANCard = other.PANCard
	}
	if other.Passbook != "" {
		d.Passbook = other.Passbook
	}
	if other.Photo != "" {
		d.Photo = other.Photo
	}
	return d
}

// EmployeeKYC is one employee's identity and bank verification record.
// At most one record exists per user.
type EmployeeKYC struct {
	ID               string
	UserID           string
	AadhaarNumber    string
	PANNumber        string
	DOB              *time.Time
	Gender           string
	PresentAddress   string
	PermanentAddress string
	City             string
	State            string
	Pincode          string
	BankName         string
	AccountNumber    string
	IFSCCode         string
	UPIID            string
	Documents        DocumentSet
	Status           VerificationStatus
	Remarks          string
	VerifiedBy       *string
	VerifiedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EmployeeDocuments is one employee's onboarding paperwork record.
// At most one record exists per user.
type EmployeeDocuments struct {
	ID               string
	UserID           string
	PANNumber        string
	AadhaarNumber    string
	BankName         string
	IFSCCode         string
	AccountNumber    string
	PresentAddress   string
	PermanentAddress string
	City             string
	State            string
	Pincode          string
	Documents        DocumentSet
	Status           VerificationStatus
	Remarks          string
	VerifiedBy       *string
	VerifiedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Incomplete reports whether the record carries neither identity numbers
// nor any uploaded document.
func (d *EmployeeDocuments) Incomplete() bool {
	return d.PANNumber == "" && d.AadhaarNumber == "" && d.Documents.Empty()
}

// Document report classifications for employees, beyond the record's own
// verification status.
const (
	DocumentReportNotSubmitted = "not_submitted"
	DocumentReportIncomplete   = "incomplete"
)

// DocumentReportEntry pairs an employee with their paperwork state.
type DocumentReportEntry struct {
	User      *User
	State     string
	UpdatedAt *time.Time
}
