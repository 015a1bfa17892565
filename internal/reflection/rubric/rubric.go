package rubric

import (
	"fmt"
	"sort"
)

// Identifier names one of the fixed analytical lenses a participant can
// apply to their notes.
type Identifier string

const (
	AITSL            Identifier = "aitsl"
	QTM              Identifier = "qtm"
	VisibleThinking  Identifier = "visible_thinking"
	ModernClassrooms Identifier = "modern_classrooms"
	Pembroke         Identifier = "pembroke"
)

// All lists every known rubric in stable order.
func All() []Identifier {
	return []Identifier{AITSL, QTM, VisibleThinking, ModernClassrooms, Pembroke}
}

func IsValid(id Identifier) bool {
	switch id {
	case AITSL, QTM, VisibleThinking, ModernClassrooms, Pembroke:
		return true
	default:
		return false
	}
}

// AnalysisKey is the key under which a rubric's sub-object appears in the
// persisted framework analysis. The report UI reads these exact keys.
func (id Identifier) AnalysisKey() string {
	switch id {
	case AITSL:
		return "aitsl_analysis"
	case QTM:
		return "quality_teaching"
	case VisibleThinking:
		return "visible_thinking"
	case ModernClassrooms:
		return "modern_classrooms"
	case Pembroke:
		return "pembroke_pedagogies"
	default:
		return string(id)
	}
}

func (id Identifier) DisplayName() string {
	switch id {
	case AITSL:
		return "AITSL Professional Standards"
	case QTM:
		return "Quality Teaching Model"
	case VisibleThinking:
		return "Visible Thinking Routines"
	case ModernClassrooms:
		return "Modern Classrooms Project"
	case Pembroke:
		return "Pembroke Effective Pedagogies"
	default:
		return string(id)
	}
}

// Selection maps rubric identifiers to whether the participant chose them.
type Selection map[Identifier]bool

// Selected returns the chosen identifiers in the stable All() order.
func (s Selection) Selected() []Identifier {
	out := make([]Identifier, 0, len(s))
	for _, id := range All() {
		if s[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s Selection) Count() int {
	n := 0
	for _, id := range All() {
		if s[id] {
			n++
		}
	}
	return n
}

// Validate rejects unknown identifiers and empty selections.
func (s Selection) Validate() error {
	keys := make([]string, 0, len(s))
	for id := range s {
		keys = append(keys, string(id))
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !IsValid(Identifier(k)) {
			return fmt.Errorf("unknown framework identifier %q", k)
		}
	}
	if s.Count() == 0 {
		return fmt.Errorf("at least one framework must be selected")
	}
	return nil
}
