package wizard

import "github.com/SAP-F-2025/teacher-portal/internal/models"

// Store holds the evolving assignment draft of one wizard session.
// It is not safe for concurrent use; the owning session serializes access.
type Store struct {
	draft models.AssignmentDraft
}

func NewStore() *Store {
	return &Store{draft: models.NewAssignmentDraft()}
}

// Draft returns a copy of the current state.
func (s *Store) Draft() models.AssignmentDraft {
	return s.draft.Clone()
}

// Update shallow-merges the patch into the current state.
func (s *Store) Update(patch models.DraftPatch) {
	s.draft = s.draft.Merge(patch)
}

// Replace swaps the whole state, used when a saved draft is reopened.
func (s *Store) Replace(draft models.AssignmentDraft) {
	s.draft = draft.Clone()
}

// Reset restores the defaults.
func (s *Store) Reset() {
	s.draft = models.NewAssignmentDraft()
}
