package store

import "math"

// Summarize computes the grade statistics for one course offering.
// Returns nil when there are no scores, which handlers report as a
// normal "no data" failure.
func Summarize(scores []Score) *ScoreStats {
	if len(scores) == 0 {
		return nil
	}
	stats := &ScoreStats{
		Count: len(scores),
		Max:   math.Inf(-1),
		Min:   math.Inf(1),
	}
	var sum float64
	for _, s := range scores {
		sum += s.Score
		stats.Max = math.Max(stats.Max, s.Score)
		stats.Min = math.Min(stats.Min, s.Score)
		switch {
		case s.Score >= 90:
			stats.Excellent++
		case s.Score >= 80:
			stats.Good++
		case s.Score >= 70:
			stats.Medium++
		case s.Score >= 60:
			stats.Pass++
		default:
			stats.Fail++
		}
	}
	stats.Average = math.Round(sum/float64(len(scores))*100) / 100
	return stats
}

// GradePoint maps a percentage score onto the 4.0 scale.
func GradePoint(score float64) float64 {
	switch {
	case score >= 90:
		return 4.0
	case score >= 85:
		return 3.7
	case score >= 80:
		return 3.3
	case score >= 75:
		return 3.0
	case score >= 70:
		return 2.7
	case score >= 65:
		return 2.3
	case score >= 60:
		return 2.0
	default:
		return 0.0
	}
}

// GPA is the credit-weighted grade point average of a score list.
func GPA(scores []Score) float64 {
	var totalCredits, weighted float64
	for _, s := range scores {
		credits := s.Credits
		if credits == 0 {
			credits = 1
		}
		totalCredits += credits
		weighted += GradePoint(s.Score) * credits
	}
	if totalCredits == 0 {
		return 0
	}
	return math.Round(weighted/totalCredits*100) / 100
}
