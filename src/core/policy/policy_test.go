package policy

import (
	"testing"

	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/google/uuid"
)

func TestCanViewAssessment(t *testing.T) {
	studentID := uuid.New()
	otherID := uuid.New()

	practice := models.Assessment{IsPractice: true, AssessmentType: models.AssessmentTypePractice}
	random := models.Assessment{AssessmentType: models.AssessmentTypeRandom}
	invited := models.Assessment{
		AssessmentType:  models.AssessmentTypeScheduled,
		AllowedStudents: []uuid.UUID{otherID, studentID},
	}
	restricted := models.Assessment{
		AssessmentType:  models.AssessmentTypeScheduled,
		AllowedStudents: []uuid.UUID{otherID},
	}

	tests := []struct {
		name       string
		assessment models.Assessment
		role       string
		want       bool
	}{
		{"admin sees restricted", restricted, models.RoleAdmin, true},
		{"mentor sees restricted", restricted, models.RoleMentor, true},
		{"student sees practice", practice, models.RoleStudent, true},
		{"student sees random", random, models.RoleStudent, true},
		{"student sees invited", invited, models.RoleStudent, true},
		{"student blocked from restricted", restricted, models.RoleStudent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewAssessment(tt.assessment, studentID, tt.role); got != tt.want {
				t.Errorf("CanViewAssessment(%s) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestCanViewAttempt(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	attempt := models.Attempt{StudentID: ownerID}

	tests := []struct {
		name   string
		userID uuid.UUID
		role   string
		want   bool
	}{
		{"owner", ownerID, models.RoleStudent, true},
		{"other student", strangerID, models.RoleStudent, false},
		{"admin", strangerID, models.RoleAdmin, true},
		{"mentor", strangerID, models.RoleMentor, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewAttempt(attempt, tt.userID, tt.role); got != tt.want {
				t.Errorf("CanViewAttempt(%s) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
