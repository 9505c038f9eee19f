package analyzer

// Grade converts a 0-100 score into the coarse A-F scale used for every
// persisted grade. Lower bounds are inclusive.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	case score >= 50:
		return "E"
	default:
		return "F"
	}
}

// fineGradeSteps is ordered from the highest threshold down.
var fineGradeSteps = []struct {
	min   int
	grade string
}{
	{97, "A+"},
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
	{60, "D-"},
}

// FineGrade converts a score into the +/- modified scale shown in reports.
// It is presentation only and never stored.
func FineGrade(score int) string {
	for _, step := range fineGradeSteps {
		if score >= step.min {
			return step.grade
		}
	}
	return "F"
}
