package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
	"github.com/nikitagawde10/spanish-professor/internal/core/services"
)

const offlineToolTimeout = 5 * time.Second

// The offline commands run a single tool through the same registry the
// model uses, so arguments are validated identically. No credentials needed.

func newConjugateCmd() *cobra.Command {
	var tense string
	cmd := &cobra.Command{
		Use:   "conjugate <verb>",
		Short: "Conjugate a Spanish verb",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd.Context(), cmd.OutOrStdout(), "conjugate_verb", map[string]any{
				"verb":  args[0],
				"tense": tense,
			})
		},
	}
	cmd.Flags().StringVar(&tense, "tense", "present", "tense to conjugate (present, preterite)")
	return cmd
}

func newIPACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ipa <word>",
		Short: "Approximate IPA for a Spanish word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd.Context(), cmd.OutOrStdout(), "spanish_ipa", map[string]any{"word": args[0]})
		},
	}
}

func newNumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "number <n>",
		Short: "Spell a number between 0 and 9999 in Spanish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("not an integer: %q", args[0])
			}
			return runTool(cmd.Context(), cmd.OutOrStdout(), "number_to_spanish", map[string]any{"n": n})
		},
	}
}

func runTool(ctx context.Context, w io.Writer, name string, args map[string]any) error {
	registry, err := services.NewBuiltinRegistry(offlineToolTimeout, services.WebSearchConfig{})
	if err != nil {
		return err
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}

	obs := registry.Call(ctx, name, raw)
	if obs.Kind != domain.ObservationOK {
		return errors.New(obs.Output)
	}
	_, err = fmt.Fprintln(w, obs.Output)
	return err
}
