package store

// GoalConfig returns the weekly goal, or ok=false when none is set.
func (s *Store) GoalConfig() (Goal, bool) {
	raw := s.GetRaw(KeyGoal)
	if raw == nil {
		return Goal{}, false
	}
	g := Get(s, KeyGoal, Goal{})
	return g, true
}

// SetGoal overwrites the weekly goal. Goals have no lifecycle beyond this.
func (s *Store) SetGoal(g Goal) error {
	return Set(s, KeyGoal, g)
}
