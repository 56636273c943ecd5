package patient

import (
	"time"

	"github.com/clinicdesk/frontdesk/internal/shared/types"
)

// Patient represents a registered patient with their visit history
type Patient struct {
	ID           types.ID  `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registered_at"`

	Visits []Visit `json:"visits"`
}

// Visit is one consultation in a patient's append-only history
type Visit struct {
	ID           types.ID  `json:"id"`
	PatientID    types.ID  `json:"patient_id"`
	VisitedAt    time.Time `json:"visited_at"`
	Complaints   string    `json:"complaints"`
	Diagnosis    string    `json:"diagnosis"`
	Treatment    string    `json:"treatment,omitempty"`
	Prescription string    `json:"prescription,omitempty"`
}

// RegisterPatientRequest is the request to register a patient, optionally
// recording the first visit in the same operation
type RegisterPatientRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Complaints   string `json:"complaints,omitempty"`
	Diagnosis    string `json:"diagnosis,omitempty"`
	Treatment    string `json:"treatment,omitempty"`
	Prescription string `json:"prescription,omitempty"`
}

// HasInitialVisit reports whether the registration carries clinical notes
// that warrant recording a first visit
func (r RegisterPatientRequest) HasInitialVisit() bool {
	return r.Complaints != "" || r.Diagnosis != "" || r.Treatment != "" || r.Prescription != ""
}

// RecordVisitRequest is the request to record a visit for an existing patient
type RecordVisitRequest struct {
	PatientID    types.ID `json:"patient_id"`
	Complaints   string   `json:"complaints"`
	Diagnosis    string   `json:"diagnosis"`
	Treatment    string   `json:"treatment,omitempty"`
	Prescription string   `json:"prescription,omitempty"`
}
