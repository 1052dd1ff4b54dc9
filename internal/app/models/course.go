package models

import "time"

// CourseType enumerates the certification program names a course record may
// carry. The list mirrors the certification body's catalog.
type CourseType string

const (
	CourseACLSEP                 CourseType = "ACLS EP"
	CourseACLSProvider           CourseType = "ACLS Provider"
	CourseAdvisorBLS             CourseType = "Advisor: BLS"
	CourseBLSProvider            CourseType = "BLS Provider"
	CourseHeartCodeACLSInstr     CourseType = "HeartCode ACLS w/Instructor"
	CourseHeartCodeACLSVAM       CourseType = "HeartCode ACLS w/VAM"
	CourseHeartCodeBLSInstr      CourseType = "HeartCode BLS w/Instructor"
	CourseHeartCodeBLSVAM        CourseType = "HeartCode BLS w/VAM"
	CourseHeartCodePALSInstr     CourseType = "HeartCode PALS w/Instructor"
	CourseHeartCodePALSVAM       CourseType = "HeartCode PALS w/VAM"
	CourseHeartsaverCPRAED       CourseType = "Heartsaver CPR AED"
	CourseHeartsaverFirstAid     CourseType = "Heartsaver First Aid"
	CourseHeartsaverFACPRAED     CourseType = "Heartsaver First Aid CPR AED"
	CourseHeartsaverK12          CourseType = "Heartsaver for K-12 Schools"
	CourseHeartsaverPedFACPRAED  CourseType = "Heartsaver Pediatric First Aid CPR AED"
	CoursePALSPlusProvider       CourseType = "PALS Plus Provider"
	CoursePALSProvider           CourseType = "PALS Provider"
	CoursePEARSProvider          CourseType = "PEARS Provider"
	CourseOther                  CourseType = "Other"
)

// AllCourseTypes lists every known course type, in catalog order.
var AllCourseTypes = []CourseType{
	CourseACLSEP,
	CourseACLSProvider,
	CourseAdvisorBLS,
	CourseBLSProvider,
	CourseHeartCodeACLSInstr,
	CourseHeartCodeACLSVAM,
	CourseHeartCodeBLSInstr,
	CourseHeartCodeBLSVAM,
	CourseHeartCodePALSInstr,
	CourseHeartCodePALSVAM,
	CourseHeartsaverCPRAED,
	CourseHeartsaverFirstAid,
	CourseHeartsaverFACPRAED,
	CourseHeartsaverK12,
	CourseHeartsaverPedFACPRAED,
	CoursePALSPlusProvider,
	CoursePALSProvider,
	CoursePEARSProvider,
	CourseOther,
}

// IsValid reports whether the course type is part of the catalog.
func (t CourseType) IsValid() bool {
	for _, known := range AllCourseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Course defines a completed course record based on the 'courses' table.
// Records are immutable once created except for deletion; there is no update
// path. InstructorID is not enforced referentially: an orphaned id is
// tolerated and rendered as "Unknown Instructor".
type Course struct {
	ID                      string     `json:"id" db:"id"`
	ECardCode               string     `json:"eCardCode" db:"ecard_code"` // Certification-body-issued credential code
	CourseDate              string     `json:"courseDate" db:"course_date"` // ISO 8601 calendar date (YYYY-MM-DD)
	StudentFirstName        string     `json:"studentFirstName" db:"student_first_name"`
	StudentLastName         string     `json:"studentLastName" db:"student_last_name"`
	StudentEmail            string     `json:"studentEmail" db:"student_email"`
	StudentPhone            string     `json:"studentPhone" db:"student_phone"`
	InstructorID            string     `json:"instructorId" db:"instructor_id"`
	TrainingLocationAddress string     `json:"trainingLocationAddress" db:"training_location_address"`
	CourseType              CourseType `json:"courseType" db:"course_type"`
	Description             *string    `json:"description,omitempty" db:"description"` // AI-generated, may be absent or a fallback template
	CreatedAt               time.Time  `json:"createdAt" db:"created_at"`

	// Relation (populated when listing)
	InstructorName string `json:"instructorName,omitempty"`
}
