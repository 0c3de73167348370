// Package prompt resolves, composes and checks the text returned by the
// project-memory tools.
//
// Resolution is layered: a project may drop overrides into
// .project-memory/prompts/. A shared base.md override is prepended to the
// specific override when both exist; with no overrides at all the built-in
// fallback is used. Placeholders are injected on every path and the result
// goes through the length governor before it is returned.
package prompt

// BaseTemplate is the shared override prepended to every specific override.
const BaseTemplate = "base.md"

// Separator joins base and specific overrides.
const Separator = "\n\n---\n\n"

// Source tells which resolution path produced a prompt.
type Source string

const (
	SourceFallback  Source = "fallback"
	SourceOverride  Source = "override"
	SourceBase      Source = "base"
	SourceComposed  Source = "composed"
	SourceCanonical Source = "canonical"
)

// Prompt is a resolved prompt plus how it was produced.
type Prompt struct {
	Text   string
	Source Source
	Lines  int
}

// Composer decides between overrides and fallbacks for a template.
type Composer struct {
	overrides OverrideSource
	injector  *Injector
	governor  *Governor
}

// NewComposer creates a Composer. injector and governor may be nil.
func NewComposer(overrides OverrideSource, injector *Injector, governor *Governor) *Composer {
	return &Composer{overrides: overrides, injector: injector, governor: governor}
}

// Compose returns the final text for template name, falling back to
// fallback when the project has no overrides.
func (c *Composer) Compose(name, fallback string) (string, error) {
	p, err := c.Resolve(name, fallback)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// Resolve is Compose with the resolution path attached.
//
// Base and specific overrides are read independently; an edit landing
// between the two reads is observed by one and not the other.
func (c *Composer) Resolve(name, fallback string) (Prompt, error) {
	base, hasBase, err := c.overrides.Resolve(BaseTemplate)
	if err != nil {
		return Prompt{}, err
	}

	var specific string
	var hasSpecific bool
	if name == BaseTemplate {
		// base.md on its own is never composed with itself.
		specific, hasSpecific = base, hasBase
		hasBase = false
	} else {
		specific, hasSpecific, err = c.overrides.Resolve(name)
		if err != nil {
			return Prompt{}, err
		}
	}

	var (
		text   string
		source Source
		label  string
	)
	switch {
	case hasBase && hasSpecific:
		text, source, label = base+Separator+specific, SourceComposed, name+" (composed)"
	case hasSpecific:
		text, source, label = specific, SourceOverride, name
	case hasBase:
		text, source, label = base, SourceBase, name
	default:
		text, source, label = fallback, SourceFallback, name+" (fallback)"
	}

	return c.finish(text, source, label), nil
}

// Canonical runs registry text through injection and the governor
// without looking at overrides.
func (c *Composer) Canonical(text, label string) Prompt {
	return c.finish(text, SourceCanonical, label)
}

func (c *Composer) finish(text string, source Source, label string) Prompt {
	text = c.injector.Inject(text)
	c.governor.Check(text, label)
	return Prompt{Text: text, Source: source, Lines: CountLines(text)}
}
