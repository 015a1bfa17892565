package prompts

type PromptName string

const (
	// Stage A: agenda intake
	PromptFocusQuestions PromptName = "focus_questions"

	// Stage B: notes analysis
	PromptFrameworkAnalysis PromptName = "framework_analysis"
)
