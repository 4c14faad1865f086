// Package gamify maps tracked time to points and points to levels.
package gamify

import "math"

// PointsForDuration awards one point per completed minute of tracked time.
func PointsForDuration(seconds int64) int64 {
	if seconds < 0 {
		return 0
	}
	return seconds / 60
}

// LevelInfo describes where a point total sits on the leveling curve.
type LevelInfo struct {
	Level              int
	PointsForNextLevel int64   // cumulative points at which the next level is reached
	Progress           float64 // 0..100 position within the current level's band
}

// LevelForPoints derives the level for a cumulative point total. Level 1
// starts at 0 points with 100 points to reach level 2; each later step adds
// floor(100 * 1.15^(level-1)) points on top of the previous threshold, so
// thresholds compound rather than reset. Negative input clamps to zero.
func LevelForPoints(points int64) LevelInfo {
	if points < 0 {
		return LevelInfo{Level: 1, PointsForNextLevel: 100, Progress: 0}
	}

	level := 1
	requiredPoints := int64(100) // cumulative points to reach level 2
	pointsAtLevelStart := int64(0)

	for points >= requiredPoints {
		level++
		pointsAtLevelStart = requiredPoints
		requiredPoints += int64(math.Floor(100 * math.Pow(1.15, float64(level-1))))
	}

	pointsInLevel := points - pointsAtLevelStart
	bandWidth := requiredPoints - pointsAtLevelStart

	progress := 0.0
	if bandWidth > 0 {
		progress = float64(pointsInLevel) / float64(bandWidth) * 100
	}

	return LevelInfo{
		Level:              level,
		PointsForNextLevel: requiredPoints,
		Progress:           progress,
	}
}
