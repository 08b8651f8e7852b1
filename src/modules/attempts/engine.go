package attempts

import (
	"errors"
	"math"

	"github.com/zyntratech-upendra/placements/src/core/models"
)

var errZeroTotalMarks = errors.New("assessment total marks is zero, cannot compute percentage")

// scoreAnswer grades one selection. Correctness is exact string equality
// against the question's correct answer; a question without a stored correct
// answer can never be scored as correct. One mark per correct answer, no
// partial credit.
func scoreAnswer(correctAnswer *string, selectedAnswer string) (isCorrect bool, marks int) {
	if correctAnswer != nil && *correctAnswer == selectedAnswer {
		return true, 1
	}
	return false, 0
}

// sumMarks totals marksObtained across the recorded answers.
func sumMarks(answers []models.Answer) int {
	total := 0
	for _, a := range answers {
		total += a.MarksObtained
	}
	return total
}

// computePercentage returns score/totalMarks*100 rounded to two decimals.
// A zero totalMarks is rejected instead of producing NaN.
func computePercentage(totalScore, totalMarks int) (float64, error) {
	if totalMarks <= 0 {
		return 0, errZeroTotalMarks
	}
	pct := float64(totalScore) / float64(totalMarks) * 100
	return math.Round(pct*100) / 100, nil
}
