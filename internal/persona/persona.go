package persona

import (
	"errors"
	"fmt"
)

// Persona identifies one of the fixed expert roles.
type Persona int

const (
	HealthAdvisor Persona = iota
	EducationConsultant
	BusinessStrategist
)

var ErrUnknownPersona = errors.New("unknown persona")

// Definition is the display label and system instruction for a persona.
type Definition struct {
	Label       string
	Instruction string
}

// table is ordered; the first entry is the default selection.
var table = [...]Definition{
	HealthAdvisor: {
		Label: "A: Health Advisor",
		Instruction: "You are a health advisor. " +
			"Give only advice that is medically safe and suitable for a general audience, " +
			"and recommend seeing a medical professional when appropriate.",
	},
	EducationConsultant: {
		Label: "B: Education Consultant",
		Instruction: "You are an education consultant. " +
			"From the perspectives of study planning, learning methods and keeping motivation, " +
			"give concrete and practical suggestions.",
	},
	BusinessStrategist: {
		Label: "C: Business Strategist",
		Instruction: "You are an expert in business strategy. " +
			"Use frameworks such as MECE, 3C, 4P and Five Forces where they help, " +
			"and present actionable moves together with their priorities.",
	},
}

// All returns every persona in display order.
func All() []Persona {
	out := make([]Persona, len(table))
	for i := range table {
		out[i] = Persona(i)
	}
	return out
}

// Default is the persona preselected in the form.
func Default() Persona { return HealthAdvisor }

// Labels returns the display labels in order.
func Labels() []string {
	labels := make([]string, len(table))
	for i, d := range table {
		labels[i] = d.Label
	}
	return labels
}

func (p Persona) valid() bool { return p >= 0 && int(p) < len(table) }

// Definition returns the label and instruction for p.
func (p Persona) Definition() (Definition, error) {
	if !p.valid() {
		return Definition{}, fmt.Errorf("%w: %d", ErrUnknownPersona, int(p))
	}
	return table[p], nil
}

func (p Persona) String() string {
	if !p.valid() {
		return fmt.Sprintf("Persona(%d)", int(p))
	}
	return table[p].Label
}

// Lookup finds the persona whose display label matches exactly.
func Lookup(label string) (Persona, error) {
	for i, d := range table {
		if d.Label == label {
			return Persona(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPersona, label)
}

// Instruction returns the system instruction for a display label.
func Instruction(label string) (string, error) {
	p, err := Lookup(label)
	if err != nil {
		return "", err
	}
	return table[p].Instruction, nil
}
