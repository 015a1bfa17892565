package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pembrokehq/reflect-backend/internal/reflection/rubric"
)

func init() {
	Register(Template{
		Name:    PromptFrameworkAnalysis,
		Version: 1,
		System:  frameworkAnalysisSystem,
		User:    frameworkAnalysisUser,
		Validate: func(in Input) error {
			if strings.TrimSpace(in.AgendaText) == "" {
				return fmt.Errorf("agenda text required")
			}
			if in.Frameworks.Count() == 0 {
				return fmt.Errorf("at least one framework required")
			}
			return nil
		},
	})
}

func frameworkAnalysisSystem(Input) string {
	return "You are an expert in educational frameworks and teacher professional growth. You map professional development notes onto the frameworks the participant selected, citing evidence from their notes."
}

func frameworkAnalysisUser(in Input) string {
	selected := in.Frameworks.Selected()

	var b strings.Builder
	b.WriteString("Analyze these professional development notes and map them to the selected educational frameworks:\n\n")
	b.WriteString("ORIGINAL PD AGENDA:\n")
	b.WriteString(strings.TrimSpace(in.AgendaText))
	b.WriteString("\n\nPARTICIPANT: ")
	b.WriteString(strings.TrimSpace(in.ParticipantName))
	b.WriteString("\n\nGENERIC NOTES:\n")
	if strings.TrimSpace(in.GenericNotes) == "" {
		b.WriteString("No generic notes provided")
	} else {
		b.WriteString(strings.TrimSpace(in.GenericNotes))
	}
	b.WriteString("\n\nSTRUCTURED RESPONSES:\n")
	b.WriteString(renderStructuredResponses(in.StructuredResponses))
	b.WriteString("\n\nProvide a comprehensive analysis mapping this learning to the following frameworks:\n")

	for i, id := range selected {
		b.WriteString(fmt.Sprintf("\n%d. ", i+1))
		b.WriteString(rubricInstructionBlock(id))
		b.WriteString("\n")
	}

	b.WriteString("\nReturn a structured JSON response with exactly this shape:\n{\n")
	for _, id := range selected {
		b.WriteString(rubricShapeFragment(id))
	}
	b.WriteString(`  "key_insights": [
    "3-5 key takeaways from the analysis"
  ],
  "recommendations": [
    "3-5 specific recommendations for professional growth"
  ]
}`)
	b.WriteString("\n\nInclude ONLY the frameworks listed above. Do not add keys for frameworks that were not selected.")
	return b.String()
}

func renderStructuredResponses(responses map[string]string) string {
	if len(responses) == 0 {
		return "No structured responses provided"
	}
	keys := make([]string, 0, len(responses))
	for k := range responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+responses[k])
	}
	return strings.Join(lines, "\n")
}

func rubricInstructionBlock(id rubric.Identifier) string {
	switch id {
	case rubric.AITSL:
		return `AITSL PROFESSIONAL STANDARDS:
For each relevant standard (1-7), identify:
- Evidence of engagement with the standard
- Specific examples from the notes
- Professional growth demonstrated
- Implementation opportunities

Standards Reference:
- Standard 1: Know students and how they learn
- Standard 2: Know the content and how to teach it
- Standard 3: Plan for and implement effective teaching and learning
- Standard 4: Create and maintain supportive learning environments
- Standard 5: Assess, provide feedback and report on student learning
- Standard 6: Engage in professional learning
- Standard 7: Engage professionally with colleagues, parents/carers and the community`
	case rubric.QTM:
		return `QUALITY TEACHING MODEL:
Analyze alignment with:
- Intellectual Quality: Deep knowledge, higher-order thinking, substantive communication
- Quality Learning Environment: Explicit quality criteria, high expectations, social support
- Significance: Background knowledge, cultural knowledge, knowledge integration`
	case rubric.VisibleThinking:
		return `VISIBLE THINKING ROUTINES:
- Which thinking routines were discussed or could be applied?
- How can the learning enhance student thinking visibility?
- Implementation strategies for thinking routines`
	case rubric.ModernClassrooms:
		return `MODERN CLASSROOMS PROJECT:
- Alignment with self-paced, mastery-based, blended instruction
- Opportunities to restructure lessons around the model
- Integration with the participant's current classroom routines`
	case rubric.Pembroke:
		return `PEMBROKE EFFECTIVE PEDAGOGIES:
- Connection to school-specific teaching approaches
- Alignment with institutional values and methods
- Integration opportunities with existing practices`
	default:
		return string(id)
	}
}

func rubricShapeFragment(id rubric.Identifier) string {
	switch id {
	case rubric.AITSL:
		return `  "aitsl_analysis": {
    "standards_addressed": [
      {
        "standard": "Standard X",
        "evidence": "Specific evidence from notes",
        "growth_demonstrated": "How this shows professional growth",
        "implementation_opportunities": "How to apply this learning"
      }
    ],
    "overall_compliance": "Summary of AITSL alignment"
  },
`
	case rubric.QTM:
		return `  "quality_teaching": {
    "intellectual_quality": "Analysis and evidence",
    "learning_environment": "Analysis and evidence",
    "significance": "Analysis and evidence"
  },
`
	case rubric.VisibleThinking:
		return `  "visible_thinking": {
    "routines_identified": ["List of applicable routines"],
    "implementation_strategies": "How to use these routines"
  },
`
	case rubric.ModernClassrooms:
		return `  "modern_classrooms": {
    "alignment": "How this connects to the Modern Classrooms model",
    "integration_opportunities": "Specific ways to integrate"
  },
`
	case rubric.Pembroke:
		return `  "pembroke_pedagogies": {
    "alignment": "How this connects to Pembroke approaches",
    "integration_opportunities": "Specific ways to integrate"
  },
`
	default:
		return ""
	}
}
