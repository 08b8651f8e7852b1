// Package policy holds the role-based visibility rules so they can be tested
// apart from the query paths that apply them.
package policy

import (
	"github.com/google/uuid"
	"github.com/zyntratech-upendra/placements/src/core/models"
	"gorm.io/gorm"
)

// VisibleAssessments narrows an assessment query to what the principal may
// see. Admins and mentors see everything; students see practice assessments,
// random (self-generated) assessments, and assessments they were invited to.
func VisibleAssessments(db *gorm.DB, userID uuid.UUID, role string) *gorm.DB {
	if role != models.RoleStudent {
		return db
	}
	return db.Where(
		"is_practice = ? OR assessment_type = ? OR id IN (SELECT assessment_id FROM assessment_students WHERE student_id = ?)",
		true, models.AssessmentTypeRandom, userID,
	)
}

// CanViewAssessment answers the same question for a single loaded record.
// AllowedStudents must already be populated on the assessment.
func CanViewAssessment(assessment models.Assessment, userID uuid.UUID, role string) bool {
	if role != models.RoleStudent {
		return true
	}
	if assessment.IsPractice || assessment.AssessmentType == models.AssessmentTypeRandom {
		return true
	}
	for _, id := range assessment.AllowedStudents {
		if id == userID {
			return true
		}
	}
	return false
}

// CanViewAttempt allows the owning student plus admin/mentor readers.
func CanViewAttempt(attempt models.Attempt, userID uuid.UUID, role string) bool {
	if role == models.RoleAdmin || role == models.RoleMentor {
		return true
	}
	return attempt.StudentID == userID
}
