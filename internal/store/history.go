package store

// History returns the full date-keyed archive.
func (s *Store) History() History {
	return Get(s, KeyHistory, History{})
}

// SetHistory replaces the archive wholesale. Callers build the new value from
// the current one; existing records are appended to, never rewritten.
func (s *Store) SetHistory(h History) error {
	if h == nil {
		h = History{}
	}
	return Set(s, KeyHistory, h)
}

// Record returns the daily record for a YYYY-MM-DD key and whether it exists.
func (s *Store) Record(date string) (DailyRecord, bool) {
	rec, ok := s.History()[date]
	return rec, ok
}
