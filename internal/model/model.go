package model

import "time"

// Role is the closed set of identities the API authorizes against.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleProvider Role = "PROVIDER"
	RolePatient  Role = "PATIENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RolePatient:
		return true
	}
	return false
}

// AppointmentStatus values. Only SCHEDULED appointments participate in
// conflict detection.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

type ProblemStatus string

const (
	ProblemActive   ProblemStatus = "ACTIVE"
	ProblemResolved ProblemStatus = "RESOLVED"
)

func (s ProblemStatus) Valid() bool {
	switch s {
	case ProblemActive, ProblemResolved:
		return true
	}
	return false
}

type AllergyCategory string

const (
	AllergyFood          AllergyCategory = "FOOD"
	AllergyMedication    AllergyCategory = "MEDICATION"
	AllergyEnvironmental AllergyCategory = "ENVIRONMENTAL"
	AllergyOther         AllergyCategory = "OTHER"
)

func (c AllergyCategory) Valid() bool {
	switch c {
	case AllergyFood, AllergyMedication, AllergyEnvironmental, AllergyOther:
		return true
	}
	return false
}

type AllergySeverity string

const (
	SeverityMild     AllergySeverity = "MILD"
	SeverityModerate AllergySeverity = "MODERATE"
	SeveritySevere   AllergySeverity = "SEVERE"
)

func (s AllergySeverity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

type MedicationStatus string

const (
	MedicationActive       MedicationStatus = "ACTIVE"
	MedicationCompleted    MedicationStatus = "COMPLETED"
	MedicationDiscontinued MedicationStatus = "DISCONTINUED"
)

func (s MedicationStatus) Valid() bool {
	switch s {
	case MedicationActive, MedicationCompleted, MedicationDiscontinued:
		return true
	}
	return false
}

// User is the credential record. RefreshTokenHash holds the sha256 of the
// single live refresh token, or nil when no session exists.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	ProviderID       *string    `json:"providerId,omitempty"`
	PatientID        *string    `json:"patientId,omitempty"`
	RefreshTokenHash *string    `json:"-"`
	SessionStartedAt *time.Time `json:"-"`
	RememberMe       bool       `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type Patient struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Dob       time.Time `json:"dob"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Provider struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Specialty string    `json:"specialty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProviderAvailability is the recurring working window for one provider.
// At most one row per provider.
type ProviderAvailability struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"providerId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	WorkingDays []string  `json:"workingDays"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Appointment struct {
	ID         string            `json:"id"`
	PatientID  string            `json:"patientId"`
	ProviderID string            `json:"providerId"`
	StartTime  time.Time         `json:"startTime"`
	EndTime    time.Time         `json:"endTime"`
	Reason     string            `json:"reason,omitempty"`
	Status     AppointmentStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// VisitNote anchors the versioned entries written during an appointment.
type VisitNote struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointmentId"`
	ProviderID    string    `json:"providerId"`
	PatientID     string    `json:"patientId"`
	LatestVersion int       `json:"latestVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

type VisitNoteEntry struct {
	ID          string    `json:"id"`
	VisitNoteID string    `json:"visitNoteId"`
	Version     int       `json:"version"`
	Content     string    `json:"content"`
	EditedByID  string    `json:"editedById"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Problem struct {
	ID          string        `json:"id"`
	PatientID   string        `json:"patientId"`
	ProviderID  string        `json:"providerId"`
	Name        string        `json:"name"`
	IcdCode     string        `json:"icdCode,omitempty"`
	Description string        `json:"description,omitempty"`
	Status      ProblemStatus `json:"status"`
	ResolvedAt  *time.Time    `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type Allergy struct {
	ID           string           `json:"id"`
	PatientID    string           `json:"patientId"`
	RecordedByID string           `json:"recordedById"`
	Category     AllergyCategory  `json:"category"`
	Substance    string           `json:"substance"`
	Reaction     string           `json:"reaction,omitempty"`
	Severity     *AllergySeverity `json:"severity,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type Medication struct {
	ID             string           `json:"id"`
	PatientID      string           `json:"patientId"`
	PrescribedByID string           `json:"prescribedById"`
	Name           string           `json:"name"`
	Dosage         string           `json:"dosage"`
	Frequency      string           `json:"frequency"`
	Status         MedicationStatus `json:"status"`
	StartDate      time.Time        `json:"startDate"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type Vital struct {
	ID                     string    `json:"id"`
	AppointmentID          string    `json:"appointmentId"`
	PatientID              string    `json:"patientId"`
	ProviderID             string    `json:"providerId"`
	HeartRate              *int      `json:"heartRate,omitempty"`
	BloodPressureSystolic  *int      `json:"bloodPressureSystolic,omitempty"`
	BloodPressureDiastolic *int      `json:"bloodPressureDiastolic,omitempty"`
	Temperature            *float64  `json:"temperature,omitempty"`
	Weight                 *float64  `json:"weight,omitempty"`
	OxygenSaturation       *int      `json:"oxygenSaturation,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

type AuditLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserRole  Role      `json:"userRole"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	Details   []byte    `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
