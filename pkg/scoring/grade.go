package scoring

// Weights are fixed platform policy, in hundredths and in Dimensions order.
// Integer weights keep the total free of float drift. Ethical carries the most weight.
var Weights = [5]int{20, 20, 25, 20, 15}

// Total returns the weighted total rounded half up (52.5 -> 53).
// Inputs are clamped, so the result is always in [Min, Max].
func Total(s Scores) int {
	sum := s.Financial*Weights[0] +
		s.Reputational*Weights[1] +
		s.Ethical*Weights[2] +
		s.StakeholderConfidence*Weights[3] +
		s.LongTermStability*Weights[4]
	return (sum + 50) / 100
}

type gradeBand struct {
	min   int
	grade string
}

var gradeTable = []gradeBand{
	{90, "A+"},
	{85, "A"},
	{80, "A-"},
	{75, "B+"},
	{70, "B"},
	{65, "B-"},
	{60, "C+"},
	{55, "C"},
	{50, "C-"},
}

// LowestGrade is returned for totals below every band.
const LowestGrade = "D"

// Grade maps a total to its letter grade.
func Grade(total int) string {
	for _, b := range gradeTable {
		if total >= b.min {
			return b.grade
		}
	}
	return LowestGrade
}

// FinalScores is the snapshot stored on a completed session.
type FinalScores struct {
	Scores
	Total int    `json:"total"`
	Grade string `json:"grade"`
}

// Finalize computes the total and grade for s.
func Finalize(s Scores) FinalScores {
	total := Total(s)
	return FinalScores{Scores: s, Total: total, Grade: Grade(total)}
}

// Map flattens the snapshot for JSON storage.
func (f FinalScores) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(Dimensions)+2)
	for k, v := range f.Scores.Map() {
		m[k] = v
	}
	m["total"] = f.Total
	m["grade"] = f.Grade
	return m
}

// IsGrade reports whether g is one of the letter grades Grade can return.
func IsGrade(g string) bool {
	if g == LowestGrade {
		return true
	}
	for _, b := range gradeTable {
		if b.grade == g {
			return true
		}
	}
	return false
}
