package domain

import (
	"time"
)

// CaseRole is the trainee's role in a logged case.
type CaseRole string

const (
	RoleObserver       CaseRole = "observer"
	RoleAssistant      CaseRole = "assistant"
	RolePrimarySurgeon CaseRole = "primary_surgeon"
	RoleTeaching       CaseRole = "teaching"
)

// CaseLog is one entry in a trainee's personal case log.
//
// Every read, update and delete is scoped to the owning UserID; a
// lookup with the wrong user behaves exactly like "not found".
// ProcedureID is a weak link: it is never validated against the
// procedure library and survives procedure deletion (ProcedureName is
// denormalized for that reason).
type CaseLog struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userId"`
	ProcedureID     *int      `json:"procedureId"`
	ProcedureName   string    `json:"procedureName"`
	Date            string    `json:"date"` // ISO date, YYYY-MM-DD
	Role            CaseRole  `json:"role"`
	Supervisor      *string   `json:"supervisor"`
	Hospital        *string   `json:"hospital"`
	PatientAge      *int      `json:"patientAge"`
	PatientSex      *string   `json:"patientSex"`
	Diagnosis       *string   `json:"diagnosis"`
	Complications   *string   `json:"complications"`
	Outcome         *string   `json:"outcome"`
	Notes           *string   `json:"notes"`
	DurationMinutes *int      `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CaseLogUpdate carries a partial update for a case log. Unlike the
// procedure update (a full replace), each field here is three-state:
// absent from the JSON body means "leave the stored value alone",
// while an explicit null (or empty value) clears it and a value sets
// it. See OptString/OptInt for the decoding rules.
type CaseLogUpdate struct {
	ProcedureID     OptInt    `json:"procedureId"`
	ProcedureName   OptString `json:"procedureName"`
	Date            OptString `json:"date"`
	Role            OptString `json:"role"`
	Supervisor      OptString `json:"supervisor"`
	Hospital        OptString `json:"hospital"`
	PatientAge      OptInt    `json:"patientAge"`
	PatientSex      OptString `json:"patientSex"`
	Diagnosis       OptString `json:"diagnosis"`
	Complications   OptString `json:"complications"`
	Outcome         OptString `json:"outcome"`
	Notes           OptString `json:"notes"`
	DurationMinutes OptInt    `json:"duration_minutes"`
}
