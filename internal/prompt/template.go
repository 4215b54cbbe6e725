package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

var (
	ErrEmptyTemplate     = errors.New("prompt template is empty")
	ErrMalformedTemplate = errors.New("prompt template is malformed")
	ErrMissingVariable   = errors.New("prompt variable is missing")
)

var (
	escapedBraces = strings.NewReplacer("{{", "", "}}", "")
	placeholder   = regexp.MustCompile(`\{([^{}]+)\}`)
)

// Template is a role-tagged f-string template: {name} placeholders, with
// literal braces written as {{ and }}.
type Template struct {
	Role      Role
	Text      string
	variables []string
}

// NewTemplate checks text renders as an f-string before it is ever used.
func NewTemplate(role Role, text string) (Template, error) {
	if strings.TrimSpace(text) == "" {
		return Template{}, fmt.Errorf("%s template: %w", role, ErrEmptyTemplate)
	}

	vars := variablesOf(text)
	if err := prompts.CheckValidTemplate(text, prompts.TemplateFormatFString, vars); err != nil {
		return Template{}, fmt.Errorf("%s template: %w: %w", role, ErrMalformedTemplate, err)
	}

	return Template{Role: role, Text: text, variables: vars}, nil
}

// Variables returns the distinct placeholder names in order of first use.
func (t Template) Variables() []string {
	return slices.Clone(t.variables)
}

// Format substitutes vars into the template. Values are inserted literally.
func (t Template) Format(vars map[string]string) (string, error) {
	values, err := t.values(vars)
	if err != nil {
		return "", err
	}
	return prompts.RenderTemplate(t.Text, prompts.TemplateFormatFString, values)
}

func (t Template) values(vars map[string]string) (map[string]any, error) {
	values := make(map[string]any, len(t.variables))
	for _, name := range t.variables {
		v, ok := vars[name]
		if !ok {
			return nil, fmt.Errorf("%s template: %w: %q", t.Role, ErrMissingVariable, name)
		}
		values[name] = v
	}
	return values, nil
}

// messageFormatter wraps the template as a langchaingo chat message template.
func (t Template) messageFormatter() prompts.MessageFormatter {
	p := prompts.PromptTemplate{
		Template:       t.Text,
		InputVariables: t.variables,
		TemplateFormat: prompts.TemplateFormatFString,
	}
	switch t.Role {
	case RoleSystem:
		return prompts.SystemMessagePromptTemplate{Prompt: p}
	case RoleHuman:
		return prompts.HumanMessagePromptTemplate{Prompt: p}
	default:
		return prompts.AIMessagePromptTemplate{Prompt: p}
	}
}

func variablesOf(text string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(escapedBraces.Replace(text), -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}
