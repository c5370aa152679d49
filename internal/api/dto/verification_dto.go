package dto

import (
	"time"

	"github.com/wltlabs/staffhub/internal/domain"
)

// DocumentSetPayload carries external upload references for scanned
// documents. Files live in external storage; only URLs travel here.
type DocumentSetPayload struct {
	AadhaarFront string `json:"aadhaar_front"`
	AadhaarBack  string `json:"aadhaar_back"`
	PANCard      string `json:"pan_card"`
	Passbook     string `json:"passbook"`
	Photo        string `json:"photo"`
}

// ToDomain maps the payload onto the domain set.
func (p DocumentSetPayload) ToDomain() domain.DocumentSet {
	return domain.DocumentSet{
		AadhaarFront: p.AadhaarFront,
		AadhaarBack:  p.AadhaarBack,
		PANCard:      p.PANCard,
		Passbook:     p.Passbook,
		Photo:        p.Photo,
	}
}

func newDocumentSetPayload(d domain.DocumentSet) DocumentSetPayload {
	return DocumentSetPayload{
		AadhaarFront: d.AadhaarFront,
		AadhaarBack:  d.AadhaarBack,
		PANCard:      d.PANCard,
		Passbook:     d.Passbook,
		Photo:        d.Photo,
	}
}

// UpsertKYCRequest payload.
type UpsertKYCRequest struct {
	AadhaarNumber    string             `json:"aadhaar_number"`
	PANNumber        string             `json:"pan_number"`
	DOB              *time.Time         `json:"dob"`
	Gender           string             `json:"gender"`
	PresentAddress   string             `json:"present_address"`
	PermanentAddress string             `json:"permanent_address"`
	City             string             `json:"city"`
	State            string             `json:"state"`
	Pincode          string             `json:"pincode"`
	BankName         string             `json:"bank_name"`
	AccountNumber    string             `json:"account_number"`
	IFSCCode         string             `json:"ifsc_code"`
	UPIID            string             `json:"upi_id"`
	Documents        DocumentSetPayload `json:"documents"`
}

// KYCResponse payload.
type KYCResponse struct {
	ID               string                    `json:"id"`
	UserID           string                    `json:"user_id"`
	AadhaarNumber    string                    `json:"aadhaar_number"`
	PANNumber        string                    `json:"pan_number"`
	DOB              *time.Time                `json:"dob,omitempty"`
	Gender           string                    `json:"gender,omitempty"`
	PresentAddress   string                    `json:"present_address,omitempty"`
	PermanentAddress string                    `json:"permanent_address,omitempty"`
	City             string                    `json:"city,omitempty"`
	State            string                    `json:"state,omitempty"`
	Pincode          string                    `json:"pincode,omitempty"`
	BankName         string                    `json:"bank_name,omitempty"`
	AccountNumber    string                    `json:"account_number,omitempty"`
	IFSCCode         string                    `json:"ifsc_code,omitempty"`
	UPIID            string                    `json:"upi_id,omitempty"`
	Documents        DocumentSetPayload        `json:"documents"`
	Status           domain.VerificationStatus `json:"status"`
	Remarks          string                    `json:"remarks,omitempty"`
	VerifiedBy       *string                   `json:"verified_by,omitempty"`
	VerifiedAt       *time.Time                `json:"verified_at,omitempty"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// NewKYCResponse maps a domain record.
func NewKYCResponse(k *domain.EmployeeKYC) KYCResponse {
	return KYCResponse{
		ID:               k.ID,
		UserID:           k.UserID,
		AadhaarNumber:    k.AadhaarNumber,
		PANNumber:        k.PANNumber,
		DOB:              k.DOB,
		Gender:           k.Gender,
		PresentAddress:   k.PresentAddress,
		PermanentAddress: k.PermanentAddress,
		City:             k.City,
		State:            k.State,
		Pincode:          k.Pincode,
		BankName:         k.BankName,
		AccountNumber:    k.AccountNumber,
		IFSCCode:         k.IFSCCode,
		UPIID:            k.UPIID,
		Documents:        newDocumentSetPayload(k.Documents),
		Status:           k.Status,
		Remarks:          k.Remarks,
		VerifiedBy:       k.VerifiedBy,
		VerifiedAt:       k.VerifiedAt,
		UpdatedAt:        k.UpdatedAt,
	}
}

// UpsertDocumentsRequest payload.
type UpsertDocumentsRequest struct {
	PANNumber        string             `json:"pan_number"`
	AadhaarNumber    string             `json:"aadhaar_number"`
	BankName         string             `json:"bank_name"`
	IFSCCode         string             `json:"ifsc_code"`
	AccountNumber    string             `json:"account_number"`
	PresentAddress   string             `json:"present_address"`
	PermanentAddress string             `json:"permanent_address"`
	City             string             `json:"city"`
	State            string             `json:"state"`
	Pincode          string             `json:"pincode"`
	Documents        DocumentSetPayload `json:"documents"`
}

// DocumentsResponse payload.
type DocumentsResponse struct {
	ID               string                    `json:"id"`
	UserID           string                    `json:"user_id"`
	PANNumber        string                    `json:"pan_number,omitempty"`
	AadhaarNumber    string                    `json:"aadhaar_number,omitempty"`
	BankName         string                    `json:"bank_name,omitempty"`
	IFSCCode         string                    `json:"ifsc_code,omitempty"`
	AccountNumber    string                    `json:"account_number,omitempty"`
	PresentAddress   string                    `json:"present_address,omitempty"`
	PermanentAddress string                    `json:"permanent_address,omitempty"`
	City             string                    `json:"city,omitempty"`
	State            string                    `json:"state,omitempty"`
	Pincode          string                    `json:"pincode,omitempty"`
	Documents        DocumentSetPayload        `json:"documents"`
	Status           domain.VerificationStatus `json:"status"`
	Remarks          string                    `json:"remarks,omitempty"`
	VerifiedBy       *string                   `json:"verified_by,omitempty"`
	VerifiedAt       *time.Time                `json:"verified_at,omitempty"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// NewDocumentsResponse maps a domain record.
func NewDocumentsResponse(d *domain.EmployeeDocuments) DocumentsResponse {
	return DocumentsResponse{
		ID:               d.ID,
		UserID:           d.UserID,
		PANNumber:        d.PANNumber,
		AadhaarNumber:    d.AadhaarNumber,
		BankName:         d.BankName,
		IFSCCode:         d.IFSCCode,
		AccountNumber:    d.AccountNumber,
		PresentAddress:   d.PresentAddress,
		PermanentAddress: d.PermanentAddress,
		City:             d.City,
		State:            d.State,
		Pincode:          d.Pincode,
		Documents:        newDocumentSetPayload(d.Documents),
		Status:           d.Status,
		Remarks:          d.Remarks,
		VerifiedBy:       d.VerifiedBy,
		VerifiedAt:       d.VerifiedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// VerifyRecordRequest carries a review decision.
type VerifyRecordRequest struct {
	Status  domain.VerificationStatus `json:"status"`
	Remarks string                    `json:"remarks"`
}

// DocumentReportEntryResponse pairs an employee with paperwork state.
type DocumentReportEntryResponse struct {
	Employee  UserResponse `json:"employee"`
	State     string       `json:"state"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

// NewDocumentReportEntryResponse maps a report entry.
func NewDocumentReportEntryResponse(e *domain.DocumentReportEntry) DocumentReportEntryResponse {
	return DocumentReportEntryResponse{
		Employee:  NewUserResponse(e.User),
		State:     e.State,
		UpdatedAt: e.UpdatedAt,
	}
}
