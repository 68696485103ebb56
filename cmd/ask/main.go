package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"expert-prompt/internal/app"
	"expert-prompt/internal/persona"
	"expert-prompt/internal/pipeline"
	"expert-prompt/internal/prompt"
)

func main() {
	if err := newRootCmd(buildService).Execute(); err != nil {
		os.Exit(1)
	}
}

func buildService() (pipeline.Asker, func() error, error) {
	deps, err := app.Build()
	if err != nil {
		return nil, nil, err
	}
	return deps.Service, deps.Close, nil
}

func newRootCmd(build func() (pipeline.Asker, func() error, error)) *cobra.Command {
	var (
		personaLabel string
		model        string
		temperature  float64
		showSystem   bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question to the selected expert role",
		Long: "Runs one question through the expert-role prompt pipeline and prints the answer.\n" +
			"The question is read from the arguments, or from stdin when none are given.\n\n" +
			"Roles:\n  " + strings.Join(persona.Labels(), "\n  "),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				query = string(data)
			}

			svc, closeFn, err := build()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeFn(); cerr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: close: %v\n", cerr)
				}
			}()

			res := svc.Ask(cmd.Context(), pipeline.Input{
				PersonaLabel: personaLabel,
				ModelID:      model,
				Temperature:  temperature,
				Query:        query,
			})
			if showSystem && res.SystemPrompt != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "system prompt: %s\n\n", res.SystemPrompt)
			}
			if res.Err != nil {
				if res.Warning() {
					return errors.New("the question is empty; please enter a question or topic")
				}
				return res.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&personaLabel, "persona", "p", persona.Default().String(), "expert role label")
	cmd.Flags().StringVarP(&model, "model", "m", prompt.DefaultModel(), "model id ("+strings.Join(prompt.Models(), ", ")+")")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", prompt.DefaultTemperature, "sampling temperature in [0, 1]")
	cmd.Flags().BoolVar(&showSystem, "show-system", false, "print the system prompt to stderr")
	return cmd
}
