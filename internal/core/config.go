package core

// SkillConfig is the static per-skill configuration loaded once at
// orchestrator construction and treated as read-only thereafter.
type SkillConfig struct {
	Name             string         `yaml:"name" json:"name"`
	Persona          string         `yaml:"persona" json:"persona"`
	Style            string         `yaml:"style" json:"style"`
	Keywords         []string       `yaml:"keywords" json:"keywords"`
	BaseWeight       float64        `yaml:"base_weight" json:"base_weight"`
	ResponsePreamble string         `yaml:"response_preamble" json:"response_preamble"`
	Temperature      float64        `yaml:"temperature" json:"temperature"`
	ModelParams      map[string]any `yaml:"model_params" json:"model_params"`
}

// OverrideRule lists the skills a skill beats when tied with them.
type OverrideRule struct {
	Overrides []string `yaml:"overrides" json:"overrides"`
}

// SelectionMatrix is the cross-skill routing policy: default skill,
// per-skill priorities, pairwise transition multipliers keyed by the
// previous turn's skill, and override rules for tie-breaking.
type SelectionMatrix struct {
	DefaultSkill       string                        `yaml:"default_skill" json:"default_skill"`
	Priorities         map[string]float64            `yaml:"priorities" json:"priorities"`
	TransitionWeights  map[string]map[string]float64 `yaml:"transition_weights" json:"transition_weights"`
	ConflictResolution map[string]OverrideRule       `yaml:"conflict_resolution" json:"conflict_resolution"`
}

// TransitionWeight returns the multiplier for moving from prev to next,
// defaulting to 1.0 when unspecified.
func (m SelectionMatrix) TransitionWeight(prev, next string) float64 {
	if row, ok := m.TransitionWeights[prev]; ok {
		if w, ok := row[next]; ok {
			return w
		}
	}
	return 1.0
}

// ScoringPriority returns the priority multiplier used during scoring,
// defaulting to 1.0 for skills absent from the priority map.
func (m SelectionMatrix) ScoringPriority(skill string) float64 {
	if p, ok := m.Priorities[skill]; ok {
		return p
	}
	return 1.0
}

// TieBreakPriority returns the priority used when ordering tied candidates,
// defaulting to 0 for skills absent from the priority map.
func (m SelectionMatrix) TieBreakPriority(skill string) float64 {
	if p, ok := m.Priorities[skill]; ok {
		return p
	}
	return 0
}
