package prompt

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"expert-prompt/internal/persona"
)

var (
	ErrEmptyQuery           = errors.New("query is empty")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Temperature bounds and the form defaults.
const (
	MinTemperature     = 0.0
	MaxTemperature     = 1.0
	TemperatureStep    = 0.05
	DefaultTemperature = 0.5
)

var supportedModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-mini",
}

// Models returns the allow-listed model identifiers; the first is the default.
func Models() []string {
	return slices.Clone(supportedModels)
}

// DefaultModel is the model preselected in the form.
func DefaultModel() string { return supportedModels[0] }

// InvocationRequest is a validated submission. Created per request, never shared.
type InvocationRequest struct {
	PersonaLabel string  `validate:"persona"`
	ModelID      string  `validate:"model"`
	Temperature  float64 `validate:"gte=0,lte=1"`
	UserQuery    string  `validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("persona", func(fl validator.FieldLevel) bool {
		_, err := persona.Lookup(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("model", func(fl validator.FieldLevel) bool {
		return slices.Contains(supportedModels, fl.Field().String())
	})
	return v
}

// Resolve checks the raw form values and returns a request ready for composition.
// An empty query is reported before anything else.
func Resolve(personaLabel, modelID string, temperature float64, rawUserQuery string) (InvocationRequest, error) {
	query := strings.TrimSpace(rawUserQuery)
	if query == "" {
		return InvocationRequest{}, ErrEmptyQuery
	}
	req := InvocationRequest{
		PersonaLabel: personaLabel,
		ModelID:      modelID,
		Temperature:  temperature,
		UserQuery:    query,
	}
	if err := validate.Struct(&req); err != nil {
		return InvocationRequest{}, fmt.Errorf("%w: %s", ErrInvalidConfiguration, describe(err))
	}
	return req, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "persona":
			parts = append(parts, fmt.Sprintf("unknown persona %q", fe.Value()))
		case "model":
			parts = append(parts, fmt.Sprintf("unsupported model %q", fe.Value()))
		case "gte", "lte":
			parts = append(parts, fmt.Sprintf("temperature %v out of range [%.1f, %.1f]", fe.Value(), MinTemperature, MaxTemperature))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
