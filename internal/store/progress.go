package store

// Progress returns the accumulated user progress.
func (s *Store) Progress() UserProgress {
	return Get(s, KeyProgress, UserProgress{Points: 0, Level: 1})
}

// SetProgress overwrites the stored progress.
func (s *Store) SetProgress(p UserProgress) error {
	return Set(s, KeyProgress, p)
}

// AddPoints adds delta to the stored points. Points only ever grow; a zero
// delta is a no-op so archival never issues empty writes.
func (s *Store) AddPoints(delta int64) error {
	if delta <= 0 {
		return nil
	}
	p := s.Progress()
	p.Points += delta
	return s.SetProgress(p)
}
