package prompts

import (
	"fmt"
	"strings"
)

func init() {
	Register(Template{
		Name:    PromptFocusQuestions,
		Version: 1,
		System:  focusQuestionsSystem,
		User:    focusQuestionsUser,
		Validate: func(in Input) error {
			if strings.TrimSpace(in.Title) == "" {
				return fmt.Errorf("title required")
			}
			if strings.TrimSpace(in.AgendaText) == "" {
				return fmt.Errorf("agenda text required")
			}
			return nil
		},
	})
}

func focusQuestionsSystem(Input) string {
	return "You are an expert in professional development for educators. You analyze PD session agendas and design reflection questions that guide participants' note-taking."
}

func focusQuestionsUser(in Input) string {
	var b strings.Builder
	b.WriteString("Analyze this PD agenda and create 3-8 highly specific focus questions that will guide participants' reflection and note-taking.\n\n")
	b.WriteString("PD SESSION TITLE: ")
	b.WriteString(strings.TrimSpace(in.Title))
	b.WriteString("\nDETAILED AGENDA:\n")
	b.WriteString(strings.TrimSpace(in.AgendaText))
	b.WriteString("\n\n")
	b.WriteString(`CRITICAL INSTRUCTIONS:
1. Create questions that are DIRECTLY RELATED to the specific content in the agenda
2. Use terminology and concepts explicitly mentioned in the agenda
3. Questions should prompt deep reflection on implementation
4. Focus on practical application in the participant's teaching context
5. Include questions about challenges and adaptations
6. Reference specific strategies, tools, or frameworks mentioned

EXAMPLE - If the agenda mentions "differentiated instruction in mathematics":
- DON'T ask: "What did you learn today?"
- DO ask: "How will you differentiate mathematical tasks for students with varying readiness levels in your classroom?"

Create 3-8 thought-provoking questions that help teachers:
- Connect the content to their current practice
- Plan specific implementation strategies
- Anticipate challenges and solutions
- Consider impact on different student groups
- Align with professional standards

Return ONLY a JSON object with this structure:
{
  "focus_questions": [
    "Specific, thought-provoking question based on the agenda content",
    "Another specific question...",
    "..."
  ]
}

Make every question highly relevant to the actual PD content provided.`)
	return b.String()
}
