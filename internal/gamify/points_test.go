package gamify

import (
	"testing"

	"pgregory.net/rapid"
)

// ============================================================
// Points
// ============================================================

func TestPointsForDuration(t *testing.T) {
	cases := []struct {
		seconds int64
		want    int64
	}{
		{0, 0},
		{59, 0},
		{60, 1},
		{119, 1},
		{120, 2},
		{3600, 60},
		{-10, 0},
	}
	for _, c := range cases {
		if got := PointsForDuration(c.seconds); got != c.want {
			t.Errorf("PointsForDuration(%d) = %d, want %d", c.seconds, got, c.want)
		}
	}
}

// ============================================================
// Leveling
// ============================================================

func TestLevelForPointsBase(t *testing.T) {
	info := LevelForPoints(0)
	if info.Level != 1 {
		t.Fatalf("Level = %d, want 1", info.Level)
	}
	if info.PointsForNextLevel != 100 {
		t.Fatalf("PointsForNextLevel = %d, want 100", info.PointsForNextLevel)
	}
	if info.Progress != 0 {
		t.Fatalf("Progress = %f, want 0", info.Progress)
	}
}

func TestLevelForPointsNegativeClamps(t *testing.T) {
	info := LevelForPoints(-50)
	if info.Level != 1 || info.Progress != 0 {
		t.Fatalf("unexpected info for negative points: %+v", info)
	}
}

func TestLevelForPointsThresholds(t *testing.T) {
	// Level 2 at 100; the next band adds floor(100*1.15) = 115, so level 3
	// starts at 215.
	if info := LevelForPoints(99); info.Level != 1 {
		t.Fatalf("99 points: level %d, want 1", info.Level)
	}
	info := LevelForPoints(100)
	if info.Level != 2 {
		t.Fatalf("100 points: level %d, want 2", info.Level)
	}
	if info.PointsForNextLevel != 215 {
		t.Fatalf("100 points: next threshold %d, want 215", info.PointsForNextLevel)
	}
	if info := LevelForPoints(214); info.Level != 2 {
		t.Fatalf("214 points: level %d, want 2", info.Level)
	}
	if info := LevelForPoints(215); info.Level != 3 {
		t.Fatalf("215 points: level %d, want 3", info.Level)
	}
}

func TestLevelForPointsProgressMidBand(t *testing.T) {
	// Halfway through level 1's 100-point band.
	info := LevelForPoints(50)
	if info.Level != 1 {
		t.Fatalf("Level = %d, want 1", info.Level)
	}
	if info.Progress != 50 {
		t.Fatalf("Progress = %f, want 50", info.Progress)
	}
}

func TestLevelMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(0, 1_000_000).Draw(t, "a")
		b := rapid.Int64Range(0, 1_000_000).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		la := LevelForPoints(a)
		lb := LevelForPoints(b)
		if la.Level > lb.Level {
			t.Fatalf("level decreased: %d points -> %d, %d points -> %d", a, la.Level, b, lb.Level)
		}
	})
}

func TestLevelProgressBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.Int64Range(0, 10_000_000).Draw(t, "points")
		info := LevelForPoints(points)
		if info.Progress < 0 || info.Progress >= 100 {
			t.Fatalf("progress out of range for %d points: %f", points, info.Progress)
		}
		if info.PointsForNextLevel <= points {
			t.Fatalf("next threshold %d not above current points %d", info.PointsForNextLevel, points)
		}
	})
}
