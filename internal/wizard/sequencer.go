package wizard

import "github.com/SAP-F-2025/teacher-portal/internal/models"

type Step int

const (
	StepBasicInfo Step = iota + 1
	StepSkillConfig
	StepSettings
	StepStudents
	StepReview
)

const (
	FirstStep = StepBasicInfo
	LastStep  = StepReview
)

type StepInfo struct {
	Step        Step   `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var stepInfos = []StepInfo{
	{StepBasicInfo, "Basic Info", "Assignment details and skill selection"},
	{StepSkillConfig, "Skill Configuration", "Configure questions and difficulty"},
	{StepSettings, "Settings", "Dates, limits, and preferences"},
	{StepStudents, "Students", "Select and differentiate for students"},
	{StepReview, "Review", "Review and assign"},
}

// Steps lists the wizard steps in order.
func Steps() []StepInfo {
	out := make([]StepInfo, len(stepInfos))
	copy(out, stepInfos)
	return out
}

func (s Step) Info() StepInfo {
	if s < FirstStep || s > LastStep {
		return StepInfo{Step: s}
	}
	return stepInfos[s-1]
}

func (s Step) String() string {
	return s.Info().Title
}

// Sequencer tracks the current step and gates forward moves on the
// current step's validator.
type Sequencer struct {
	step Step
}

func NewSequencer() *Sequencer {
	return &Sequencer{step: FirstStep}
}

func (s *Sequencer) Step() Step {
	return s.step
}

func (s *Sequencer) IsFirst() bool { return s.step == FirstStep }
func (s *Sequencer) IsLast() bool  { return s.step == LastStep }

// Next advances one step when the current step is complete for draft.
func (s *Sequencer) Next(draft models.AssignmentDraft) bool {
	if s.IsLast() || !CanProceed(s.step, draft) {
		return false
	}
	s.step++
	return true
}

// Previous goes back one step without validation.
func (s *Sequencer) Previous() bool {
	if s.IsFirst() {
		return false
	}
	s.step--
	return true
}

// Progress is the completion percentage, 0 on the first step and 100 on the last.
func (s *Sequencer) Progress() float64 {
	return float64(s.step-FirstStep) / float64(LastStep-FirstStep) * 100
}

func (s *Sequencer) Reset() {
	s.step = FirstStep
}
