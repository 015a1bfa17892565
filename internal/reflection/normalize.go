package reflection

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pembrokehq/reflect-backend/internal/reflection/rubric"
)

const maxFocusQuestions = 8

// stripCodeFences removes a leading ```lang line and trailing ``` line
// that models sometimes wrap JSON payloads in.
func stripCodeFences(src string) string {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	body := lines[1:]
	if last == "```" {
		body = lines[1 : len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

type focusQuestionsPayload struct {
	FocusQuestions []string `json:"focus_questions"`
}

// NormalizeFocusQuestions parses the model output for the agenda form
// stage. On any parse or shape failure it falls back to keyword-derived
// questions so agenda creation never fails on model output alone.
func NormalizeFocusQuestions(raw, agendaText string) (questions []string, degraded bool, parseErr error) {
	cleaned := stripCodeFences(raw)

	var payload focusQuestionsPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return FallbackFocusQuestions(agendaText), true, fmt.Errorf("parse focus questions: %w", err)
	}

	out := make([]string, 0, len(payload.FocusQuestions))
	for _, q := range payload.FocusQuestions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == maxFocusQuestions {
			break
		}
	}
	if len(out) == 0 {
		return FallbackFocusQuestions(agendaText), true, fmt.Errorf("focus questions payload empty")
	}
	return out, false, nil
}

// FallbackFocusQuestions derives reflection questions from agenda
// keywords, capped at 5. Topic questions come first so the cap trims
// the generic tail, not the targeted ones.
func FallbackFocusQuestions(agendaText string) []string {
	agendaLower := strings.ToLower(agendaText)
	var qs []string

	if strings.Contains(agendaLower, "differentiat") || strings.Contains(agendaLower, "adapt") {
		qs = append(qs,
			"What specific differentiation strategies from today's session will you implement first, and how will you adapt them for your students?",
			"Which student groups in your classroom will most benefit from these approaches, and what modifications might you need to make?",
		)
	}
	if strings.Contains(agendaLower, "assess") || strings.Contains(agendaLower, "feedback") {
		qs = append(qs,
			"How will you integrate the assessment strategies discussed into your current evaluation practices?",
			"What specific feedback techniques will you trial, and how will you measure their impact on student learning?",
		)
	}
	if strings.Contains(agendaLower, "technolog") || strings.Contains(agendaLower, "digital") {
		qs = append(qs,
			"Which digital tools or platforms presented today align best with your teaching goals, and how will you introduce them to students?",
			"What potential challenges do you anticipate with technology integration, and what support might you need?",
		)
	}
	qs = append(qs,
		"What key concepts or strategies from this session resonated most with your teaching philosophy and why?",
		"How will you know if your implementation of these ideas is successful? What will you look for in student outcomes?",
		"What questions or areas of uncertainty do you still have that you'd like to explore further?",
	)

	if len(qs) > 5 {
		qs = qs[:5]
	}
	return qs
}

// AnalysisResult carries a normalized framework analysis. Degraded means
// the model output could not be used and ParseErr explains why; Analysis
// then holds the deterministic fallback for the selected frameworks.
type AnalysisResult struct {
	Analysis map[string]json.RawMessage
	Degraded bool
	ParseErr error
}

// NormalizeAnalysis parses the model output for the notes analysis stage
// and enforces the shape contract: key_insights, recommendations, and
// exactly one sub-object per selected framework. Unknown keys are
// dropped; a missing required key degrades to the fallback.
func NormalizeAnalysis(raw string, selection rubric.Selection) AnalysisResult {
	cleaned := stripCodeFences(raw)

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return AnalysisResult{
			Analysis: FallbackAnalysis(selection),
			Degraded: true,
			ParseErr: fmt.Errorf("parse framework analysis: %w", err),
		}
	}

	out := make(map[string]json.RawMessage, selection.Count()+2)
	for _, id := range selection.Selected() {
		key := id.AnalysisKey()
		block, ok := parsed[key]
		if !ok || len(block) == 0 {
			return AnalysisResult{
				Analysis: FallbackAnalysis(selection),
				Degraded: true,
				ParseErr: fmt.Errorf("framework analysis missing %q", key),
			}
		}
		out[key] = block
	}
	for _, key := range []string{"key_insights", "recommendations"} {
		block, ok := parsed[key]
		if !ok || len(block) == 0 {
			return AnalysisResult{
				Analysis: FallbackAnalysis(selection),
				Degraded: true,
				ParseErr: fmt.Errorf("framework analysis missing %q", key),
			}
		}
		var items []string
		if err := json.Unmarshal(block, &items); err != nil || len(items) == 0 {
			return AnalysisResult{
				Analysis: FallbackAnalysis(selection),
				Degraded: true,
				ParseErr: fmt.Errorf("framework analysis %q is not a non-empty string array", key),
			}
		}
		out[key] = block
	}

	return AnalysisResult{Analysis: out}
}

// FallbackAnalysis produces a generic analysis covering exactly the
// selected frameworks, used when model output cannot be parsed.
func FallbackAnalysis(selection rubric.Selection) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, selection.Count()+2)
	for _, id := range selection.Selected() {
		out[id.AnalysisKey()] = fallbackRubricBlock(id)
	}
	out["key_insights"] = mustJSON([]string{
		"Professional learning requires active engagement and reflection",
		"New strategies must be adapted to specific teaching contexts",
		"Ongoing reflection enhances implementation success",
	})
	out["recommendations"] = mustJSON([]string{
		"Continue to engage in regular professional learning opportunities",
		"Document implementation attempts and outcomes",
		"Share learnings with colleagues for broader impact",
	})
	return out
}

func fallbackRubricBlock(id rubric.Identifier) json.RawMessage {
	switch id {
	case rubric.AITSL:
		return mustJSON(map[string]any{
			"standards_addressed": []map[string]string{{
				"standard":                     "Standard 6: Engage in professional learning",
				"evidence":                     "Participant engaged in structured professional development session",
				"growth_demonstrated":          "Active participation in learning activities and reflection",
				"implementation_opportunities": "Apply new knowledge and strategies in classroom practice",
			}},
			"overall_compliance": "Demonstrates commitment to ongoing professional learning and growth",
		})
	case rubric.QTM:
		return mustJSON(map[string]string{
			"intellectual_quality": "Engaged with deep learning concepts during the session",
			"learning_environment": "Participated in supportive professional learning environment",
			"significance":         "Connected new learning to existing practice and student needs",
		})
	case rubric.VisibleThinking:
		return mustJSON(map[string]any{
			"routines_identified":       []string{"Reflection and metacognition"},
			"implementation_strategies": "Use reflection techniques to make learning visible to students",
		})
	case rubric.ModernClassrooms:
		return mustJSON(map[string]string{
			"alignment":                 "Session content supports self-paced, mastery-based instruction",
			"integration_opportunities": "Restructure upcoming lessons around student-paced progression",
		})
	case rubric.Pembroke:
		return mustJSON(map[string]string{
			"alignment":                 "Aligns with commitment to evidence-based teaching practices",
			"integration_opportunities": "Integrate new strategies with existing Pembroke teaching approaches",
		})
	default:
		return mustJSON(map[string]string{})
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
