package utils

// RankScores returns the competition rank ("1224") of each score.
// The scores must already be sorted from best to worst.
func RankScores(scores []float64) []int {
	ranks := make([]int, len(scores))
	for i, score := range scores {
		if i > 0 && score == scores[i-1] {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

// PointsForRank returns the points a participant earns when a competition
// completes with the given final rank
func PointsForRank(rank int) int {
	switch {
	case rank <= 0:
		return 0
	case rank == 1:
		return 100
	case rank == 2:
		return 75
	case rank == 3:
		return 50
	case rank <= 10:
		return 20
	}
	return 5
}
