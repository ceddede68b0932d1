package domain

import "time"

// DocumentStatus is the review state of an uploaded document.
// Rejection is destructive (record and file removed), so only pending
// and approved are ever persisted.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
)

// DocumentOwnerType selects which catalog a document slot belongs to.
type DocumentOwnerType string

const (
	DocumentOwnerRegistration DocumentOwnerType = "registration"
	DocumentOwnerOrganization DocumentOwnerType = "organization"
)

// DocumentRecord is one versioned file in a (owner, documentKey) slot.
// Single-file slots hold at most one record; a re-upload replaces it in
// place and bumps Version. Multi-file slots append independent records.
type DocumentRecord struct {
	ID          int64             `json:"id"`
	OwnerType   DocumentOwnerType `json:"owner_type"`
	OwnerID     int64             `json:"owner_id"`
	DocumentKey string            `json:"document_key"`
	Version     int               `json:"version"`
	Status      DocumentStatus    `json:"status"`

	FileName string `json:"file_name"`
	FilePath string `json:"-"`
	FileURL  string `json:"file_url"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`

	UploadedBy   int64    `json:"uploaded_by"`
	UploaderRole UserRole `json:"uploader_role"`

	ReviewedBy *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentSlot describes one slot in a catalog.
type DocumentSlot struct {
	Key      string
	Label    string
	Multiple bool
}

// Slot registries for the two catalogs. Keys not listed here are rejected
// on upload.
var (
	RegistrationDocumentSlots = []DocumentSlot{
		{Key: "passport", Label: "Passport"},
		{Key: "transcript", Label: "Academic transcript"},
		{Key: "test_score", Label: "Language / aptitude test score"},
		{Key: "statement", Label: "Statement of purpose"},
		{Key: "recommendation_letter", Label: "Recommendation letter", Multiple: true},
	}

	OrganizationDocumentSlots = []DocumentSlot{
		{Key: "business_license", Label: "Business license"},
		{Key: "accreditation_certificate", Label: "Accreditation certificate"},
	}
)

// FindDocumentSlot resolves a slot definition for the given catalog.
func FindDocumentSlot(ownerType DocumentOwnerType, key string) (DocumentSlot, bool) {
	var slots []DocumentSlot
	switch ownerType {
	case DocumentOwnerRegistration:
		slots = RegistrationDocumentSlots
	case DocumentOwnerOrganization:
		slots = OrganizationDocumentSlots
	default:
		return DocumentSlot{}, false
	}
	for _, s := range slots {
		if s.Key == key {
			return s, true
		}
	}
	return DocumentSlot{}, false
}
