package profile

import "strings"

// instructionCues maps instruction keywords to meal relations. Checked in
// order: more specific cues first so "before meals on empty stomach" does
// not match the bare "meal" cue.
var instructionCues = []struct {
	cue      string
	relation MealRelation
}{
	{"empty stomach", RelationBefore},
	{"before meal", RelationBefore},
	{"before food", RelationBefore},
	{"before eating", RelationBefore},
	{"after meal", RelationAfter},
	{"after food", RelationAfter},
	{"after eating", RelationAfter},
	{"with meal", RelationWith},
	{"with food", RelationWith},
	{"during meal", RelationWith},
}

// InferMealRelation classifies free-text medication instructions into a meal
// relation. Instructions with no recognizable cue, including "take as
// needed", default to independent.
func InferMealRelation(instructions string) MealRelation {
	text := strings.ToLower(instructions)
	for _, c := range instructionCues {
		if strings.Contains(text, c.cue) {
			return c.relation
		}
	}
	return RelationIndependent
}
