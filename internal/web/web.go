package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"expert-prompt/internal/httputil"
	"expert-prompt/internal/llm"
	"expert-prompt/internal/persona"
	"expert-prompt/internal/pipeline"
	"expert-prompt/internal/prompt"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const queryPlaceholder = "e.g. I can't sleep lately, what should I do?"

// Handler serves the form page and the JSON API.
type Handler struct {
	log *slog.Logger
	svc pipeline.Asker
}

func NewHandler(log *slog.Logger, svc pipeline.Asker) *Handler {
	return &Handler{log: log, svc: svc}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.index)
	r.Post("/ask", h.askForm)
	r.Route("/api", func(r chi.Router) {
		r.Get("/personas", h.personas)
		r.Post("/ask", h.askJSON)
	})
	r.Get("/healthz", httputil.HealthHandler(h.log))
}

type option struct {
	Value    string
	Selected bool
}

type page struct {
	Personas    []option
	Models      []option
	Temperature float64
	MinTemp     float64
	MaxTemp     float64
	Step        float64
	Query       string
	Placeholder string

	Answered     bool
	Answer       string
	Warning      string
	Error        string
	SystemPrompt string
	RequestID    string
}

func newPage(selectedPersona, selectedModel string, temperature float64, query string) page {
	return page{
		Personas:    options(persona.Labels(), selectedPersona),
		Models:      options(prompt.Models(), selectedModel),
		Temperature: temperature,
		MinTemp:     prompt.MinTemperature,
		MaxTemp:     prompt.MaxTemperature,
		Step:        prompt.TemperatureStep,
		Query:       query,
		Placeholder: queryPlaceholder,
	}
}

// options marks selected, falling back to the first entry.
func options(values []string, selected string) []option {
	out := make([]option, len(values))
	found := false
	for i, v := range values {
		out[i] = option{Value: v, Selected: v == selected}
		found = found || out[i].Selected
	}
	if !found && len(out) > 0 {
		out[0].Selected = true
	}
	return out
}

func (h *Handler) render(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, p); err != nil {
		h.log.Error("render failed", "err", err)
	}
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newPage(persona.Labels()[0], prompt.DefaultModel(), prompt.DefaultTemperature, ""))
}

func (h *Handler) askForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.Fail(h.log, w, "invalid form", err, http.StatusBadRequest)
		return
	}
	in := pipeline.Input{
		PersonaLabel: r.PostForm.Get("persona"),
		ModelID:      r.PostForm.Get("model"),
		Query:        r.PostForm.Get("query"),
	}
	p := newPage(in.PersonaLabel, in.ModelID, prompt.DefaultTemperature, in.Query)

	// A blank question is reported as a warning regardless of the other fields.
	in.Temperature = prompt.DefaultTemperature
	if strings.TrimSpace(in.Query) != "" {
		temp, err := strconv.ParseFloat(r.PostForm.Get("temperature"), 64)
		if err != nil {
			p.Error = "temperature must be a number between 0 and 1"
			h.render(w, http.StatusBadRequest, p)
			return
		}
		in.Temperature = temp
	} else if temp, err := strconv.ParseFloat(r.PostForm.Get("temperature"), 64); err == nil {
		in.Temperature = temp
	}
	p.Temperature = in.Temperature

	res := h.svc.Ask(r.Context(), in)
	p.RequestID = res.RequestID.String()
	p.SystemPrompt = res.SystemPrompt

	switch {
	case res.Err == nil:
		p.Answered = true
		p.Answer = res.Answer
		h.render(w, http.StatusOK, p)
	case res.Warning():
		p.Warning = "The question is empty. Please enter a question or topic."
		h.render(w, http.StatusOK, p)
	case errors.Is(res.Err, prompt.ErrInvalidConfiguration), errors.Is(res.Err, persona.ErrUnknownPersona):
		p.Error = res.Err.Error()
		h.render(w, http.StatusBadRequest, p)
	default:
		p.Error = "An error occurred: " + res.Err.Error()
		h.render(w, http.StatusOK, p)
	}
}

type askRequest struct {
	Persona     string   `json:"persona" validate:"omitempty,max=128"`
	Model       string   `json:"model" validate:"omitempty,max=64"`
	Temperature *float64 `json:"temperature"`
	Query       string   `json:"query"`
}

type askResponse struct {
	Answer       string `json:"answer"`
	SystemPrompt string `json:"system_prompt"`
	RequestID    string `json:"request_id"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

// askJSON mirrors the form: omitted fields take the form defaults.
func (h *Handler) askJSON(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("invalid payload", "err", err)
		httputil.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload: " + err.Error(), Kind: "invalid_payload"})
		return
	}
	// Range checks on persona, model and temperature belong to the pipeline so
	// that a blank query is always reported first; only oversized fields stop here.
	if strings.TrimSpace(req.Query) != "" {
		if err := httputil.Validator.Struct(&req); err != nil {
			h.log.Warn("validation failed", "err", err)
			httputil.WriteJSON(w, http.StatusBadRequest, errorResponse{
				Error: fmt.Sprintf("%v: %s", prompt.ErrInvalidConfiguration, strings.Join(httputil.FieldErrors(err), "; ")),
				Kind:  "invalid_configuration",
			})
			return
		}
	}

	in := pipeline.Input{
		PersonaLabel: req.Persona,
		ModelID:      req.Model,
		Temperature:  prompt.DefaultTemperature,
		Query:        req.Query,
	}
	if in.PersonaLabel == "" {
		in.PersonaLabel = persona.Default().String()
	}
	if in.ModelID == "" {
		in.ModelID = prompt.DefaultModel()
	}
	if req.Temperature != nil {
		in.Temperature = *req.Temperature
	}

	res := h.svc.Ask(r.Context(), in)
	id := res.RequestID.String()
	switch {
	case res.Err == nil:
		httputil.WriteJSON(w, http.StatusOK, askResponse{Answer: res.Answer, SystemPrompt: res.SystemPrompt, RequestID: id})
	case res.Warning():
		httputil.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: res.Err.Error(), Kind: "empty_query", RequestID: id})
	case errors.Is(res.Err, prompt.ErrInvalidConfiguration), errors.Is(res.Err, persona.ErrUnknownPersona):
		httputil.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: res.Err.Error(), Kind: "invalid_configuration", RequestID: id})
	default:
		httputil.WriteJSON(w, http.StatusBadGateway, errorResponse{Error: res.Err.Error(), Kind: llm.KindOf(res.Err).String(), RequestID: id})
	}
}

type personaInfo struct {
	Label       string `json:"label"`
	Instruction string `json:"instruction"`
}

func (h *Handler) personas(w http.ResponseWriter, r *http.Request) {
	list := make([]personaInfo, 0, len(persona.All()))
	for _, p := range persona.All() {
		def, err := p.Definition()
		if err != nil {
			httputil.Fail(h.log, w, "persona table corrupt", err, http.StatusInternalServerError)
			return
		}
		list = append(list, personaInfo{Label: def.Label, Instruction: def.Instruction})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"personas": list,
		"models":   prompt.Models(),
		"temperature": map[string]float64{
			"min":     prompt.MinTemperature,
			"max":     prompt.MaxTemperature,
			"step":    prompt.TemperatureStep,
			"default": prompt.DefaultTemperature,
		},
	})
}
