package prompt

import (
	"expert-prompt/internal/persona"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
)

type Message struct {
	Role Role
	Text string
}

// MessageSequence is the ordered list sent to the model.
type MessageSequence []Message

// System returns the text of the first system message, if any.
func (m MessageSequence) System() string {
	for _, msg := range m {
		if msg.Role == RoleSystem {
			return msg.Text
		}
	}
	return ""
}

// Compose builds the system + human pair for req. The query is passed through untouched.
func Compose(req InvocationRequest) (MessageSequence, error) {
	instruction, err := persona.Instruction(req.PersonaLabel)
	if err != nil {
		return nil, err
	}
	return MessageSequence{
		{Role: RoleSystem, Text: instruction},
		{Role: RoleHuman, Text: req.UserQuery},
	}, nil
}
