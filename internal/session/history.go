package session

// HistoryState is what undo/redo controls display.
type HistoryState struct {
	Cursor  int  `json:"cursor"`
	Entries int  `json:"entries"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// Undo restores the previous snapshot. Out-of-range calls are no-ops.
func (s *Session) Undo() bool {
	ok := s.history.Undo()
	if ok {
		s.logger.Debug("undo", "cursor", s.HistoryState().Cursor)
	}
	return ok
}

func (s *Session) Redo() bool {
	ok := s.history.Redo()
	if ok {
		s.logger.Debug("redo", "cursor", s.HistoryState().Cursor)
	}
	return ok
}

// Checkpoint commits pending edits to history immediately.
func (s *Session) Checkpoint() {
	s.history.Commit()
}

func (s *Session) HistoryState() HistoryState {
	cursor, entries := s.history.State()
	return HistoryState{
		Cursor:  cursor,
		Entries: entries,
		CanUndo: cursor > 0,
		CanRedo: cursor < entries-1,
	}
}
