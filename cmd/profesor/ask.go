package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nikitagawde10/spanish-professor/internal/core/services"
)

type outputMode int

const (
	outputTerminal outputMode = iota
	outputHTML
	outputRaw
)

func newAskCmd(flags *globalFlags) *cobra.Command {
	var raw, html bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question through the full pipeline and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw && html {
				return errors.New("--raw and --html are mutually exclusive")
			}
			logger := newLogger(cmd.ErrOrStderr(), flags.LogLevel)

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), logger, cfg)
			if err != nil {
				return err
			}

			result := a.questions.Ask(cmd.Context(), strings.Join(args, " "))

			mode := outputTerminal
			switch {
			case raw:
				mode = outputRaw
			case html:
				mode = outputHTML
			}
			return renderResult(cmd.OutOrStdout(), result, mode)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the JSON response with status, tag and tool steps")
	cmd.Flags().BoolVar(&html, "html", false, "render the answer as HTML")
	return cmd
}

// renderResult writes the answer in the requested format. A non-200 result
// is still printed in raw mode and is returned as an error otherwise.
func renderResult(w io.Writer, result services.AskResult, mode outputMode) error {
	if mode == outputRaw {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if result.Status != http.StatusOK {
		if result.Response.Detail != "" {
			return fmt.Errorf("%s (%s)", result.Response.Error, result.Response.Detail)
		}
		return errors.New(result.Response.Error)
	}

	answer := result.Response.Answer
	switch mode {
	case outputHTML:
		out, err := markdownToHTML(answer)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		out, err := renderTerminal(answer)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
}

func markdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

func renderTerminal(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
