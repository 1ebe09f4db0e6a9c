package wizard

import (
	"errors"

	apperrors "github.com/SAP-F-2025/teacher-portal/internal/errors"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
)

var (
	ErrNotOnReviewStep = errors.New("assignment can only be created from the review step")
	ErrDraftIncomplete = errors.New("assignment draft is incomplete")
)

// Builder is the assignment wizard for a single class: a draft store driven
// through the five steps by a sequencer.
type Builder struct {
	classID string
	store   *Store
	seq     *Sequencer
}

func NewBuilder(classID string) *Builder {
	return &Builder{
		classID: classID,
		store:   NewStore(),
		seq:     NewSequencer(),
	}
}

func (b *Builder) ClassID() string               { return b.classID }
func (b *Builder) Draft() models.AssignmentDraft { return b.store.Draft() }
func (b *Builder) Step() Step                    { return b.seq.Step() }
func (b *Builder) Progress() float64             { return b.seq.Progress() }
func (b *Builder) CanProceed() bool              { return CanProceed(b.seq.Step(), b.store.draft) }
func (b *Builder) StepErrors() apperrors.ValidationErrors {
	return ValidateStep(b.seq.Step(), b.store.draft)
}

// Update merges patch after checking that the result keeps the data-model
// invariants. On violation the draft is left unchanged.
func (b *Builder) Update(patch models.DraftPatch) error {
	candidate := b.store.draft.Merge(patch)
	if errs := CheckInvariants(candidate); len(errs) > 0 {
		return errs
	}
	b.store.Update(patch)
	return nil
}

// Next moves forward when the current step validates. It returns whether the
// step changed and the errors blocking it otherwise.
func (b *Builder) Next() (bool, apperrors.ValidationErrors) {
	if b.seq.IsLast() {
		return false, nil
	}
	if errs := b.StepErrors(); len(errs) > 0 {
		return false, errs
	}
	return b.seq.Next(b.store.draft), nil
}

func (b *Builder) Previous() bool {
	return b.seq.Previous()
}

// CheckSubmittable reports whether the draft may be created and assigned:
// the wizard must be on the review step and every step must validate.
func (b *Builder) CheckSubmittable() error {
	if !b.seq.IsLast() {
		return ErrNotOnReviewStep
	}
	if errs := ValidateAll(b.store.draft); len(errs) > 0 {
		return errors.Join(ErrDraftIncomplete, errs)
	}
	return nil
}

// Load replaces the draft, e.g. with a previously saved one, and restarts
// at the first step.
func (b *Builder) Load(draft models.AssignmentDraft) error {
	if errs := CheckInvariants(draft); len(errs) > 0 {
		return errs
	}
	b.store.Replace(draft)
	b.seq.Reset()
	return nil
}

// Reset discards the draft and returns to the first step.
func (b *Builder) Reset() {
	b.store.Reset()
	b.seq.Reset()
}

// MarkDraft flags the draft as saved without touching anything else.
func (b *Builder) MarkDraft() {
	b.store.draft.IsDraft = true
}
