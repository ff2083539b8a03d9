package skills

import (
	"github.com/sandevgo/discobot/internal/core"
)

// Factory builds a skill from its configuration entry.
type Factory func(cfg core.SkillConfig, gen core.Generator) (core.Skill, error)

// Registry maps skill names to factories. Names absent from the registry
// fall back to the persona factory, so dropping a config file into the skill
// directory is enough to register a new persona.
type Registry struct {
	factories map[string]Factory
	fallback  Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		fallback:  PersonaFactory,
	}
}

// DefaultRegistry wires the built-in skill families.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("small_talk", SmallTalkFactory)
	return r
}

func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Build instantiates the skill registered under cfg.Name, defaulting to the
// persona factory for unregistered names.
func (r *Registry) Build(cfg core.SkillConfig, gen core.Generator) (core.Skill, error) {
	factory, ok := r.factories[cfg.Name]
	if !ok {
		factory = r.fallback
	}
	return factory(cfg, gen)
}

func PersonaFactory(cfg core.SkillConfig, gen core.Generator) (core.Skill, error) {
	return NewPersonaSkill(cfg, gen)
}

func SmallTalkFactory(cfg core.SkillConfig, gen core.Generator) (core.Skill, error) {
	return NewSmallTalkSkill(cfg, gen)
}
