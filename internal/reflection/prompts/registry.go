package prompts

import (
	"fmt"
	"strings"
)

type Validator func(Input) error

type Template struct {
	Name     PromptName
	Version  int
	System   func(Input) string
	User     func(Input) string
	Validate Validator
}

var registry = map[PromptName]Template{}

// Register registers a compiled Template.
func Register(t Template) {
	registry[t.Name] = t
}

// Build returns a Prompt ready to pass into openai.GenerateText. Rendering is
// pure: the same Input always yields byte-identical prompt text.
func Build(name PromptName, in Input) (Prompt, error) {
	t, ok := registry[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}

	return Prompt{
		Name:    string(t.Name),
		Version: t.Version,
		System:  strings.TrimSpace(t.System(in)),
		User:    strings.TrimSpace(t.User(in)),
	}, nil
}
