package prompt

import (
	"fmt"
	"slices"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"neoito.app/leadgen/common/llm"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleAI     Role = "ai"
	RoleHuman  Role = "human"
)

// Variables supplied by each lead generation request.
const (
	VarProduct   = "product"
	VarCustomers = "customers"
)

// Layout is the fixed role order of the lead generation conversation.
var Layout = [6]Role{RoleSystem, RoleAI, RoleHuman, RoleAI, RoleHuman, RoleAI}

// LLMRole maps a conversation role onto the chat completion API role.
func (r Role) LLMRole() string {
	switch r {
	case RoleSystem:
		return llm.RoleSystem
	case RoleHuman:
		return llm.RoleUser
	default:
		return llm.RoleAssistant
	}
}

func roleOf(t llms.ChatMessageType) (Role, error) {
	switch t {
	case llms.ChatMessageTypeSystem:
		return RoleSystem, nil
	case llms.ChatMessageTypeHuman:
		return RoleHuman, nil
	case llms.ChatMessageTypeAI:
		return RoleAI, nil
	default:
		return "", fmt.Errorf("unexpected chat message type %q", t)
	}
}

// Chat is the ordered six-template conversation. It is immutable once built.
type Chat struct {
	templates [len(Layout)]Template
	prompt    prompts.ChatPromptTemplate
}

// NewChat pairs texts with Layout and validates each one.
func NewChat(texts [6]string) (*Chat, error) {
	c := &Chat{}
	formatters := make([]prompts.MessageFormatter, 0, len(Layout))
	for i, role := range Layout {
		t, err := NewTemplate(role, texts[i])
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i+1, err)
		}
		c.templates[i] = t
		formatters = append(formatters, t.messageFormatter())
	}
	c.prompt = prompts.NewChatPromptTemplate(formatters)
	return c, nil
}

func (c *Chat) Templates() []Template {
	return slices.Clone(c.templates[:])
}

// Unreferenced returns those names that no template of the given role uses.
func (c *Chat) Unreferenced(role Role, names ...string) []string {
	var missing []string
	for _, name := range names {
		found := false
		for _, t := range c.templates {
			if t.Role == role && slices.Contains(t.variables, name) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	return missing
}

// Format renders all six templates into role-tagged messages, in Layout order.
func (c *Chat) Format(vars map[string]string) ([]llm.Message, error) {
	values := make(map[string]any, len(vars))
	for i, t := range c.templates {
		v, err := t.values(vars)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i+1, err)
		}
		for k, val := range v {
			values[k] = val
		}
	}

	rendered, err := c.prompt.FormatMessages(values)
	if err != nil {
		return nil, fmt.Errorf("format chat prompt: %w", err)
	}

	messages := make([]llm.Message, 0, len(rendered))
	for _, m := range rendered {
		role, err := roleOf(m.GetType())
		if err != nil {
			return nil, err
		}
		messages = append(messages, llm.Message{Role: role.LLMRole(), Content: m.GetContent()})
	}
	return messages, nil
}
