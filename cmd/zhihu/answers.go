package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glabrego/zhihu-cli/internal/render/answers"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

const (
	formatHTML     = "html"
	formatPlain    = "plain"
	formatTerminal = "terminal"
)

func newAnswersCmd(configPath *string) *cobra.Command {
	var (
		offset int
		format string
		title  string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "answers <question-id>",
		Short: "Print one page of answers for a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if offset < 0 || offset%zhihu.PageSize != 0 {
				return fmt.Errorf("--offset must be a non-negative multiple of %d", zhihu.PageSize)
			}
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case formatHTML, formatPlain, formatTerminal:
			default:
				return fmt.Errorf("unknown --format %q (want html, plain or terminal)", format)
			}

			rt, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			topic := zhihu.Topic{ID: strings.TrimSpace(args[0]), Title: title}
			if topic.Title == "" {
				topic.Title = topic.ID
			}
			page, err := rt.service.FetchPage(cmd.Context(), topic, offset)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPage(page, format, width, rt.cfg.ImageMaxWidth))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "answer offset, a multiple of 10")
	cmd.Flags().StringVar(&format, "format", formatTerminal, "output format: html, plain or terminal")
	cmd.Flags().StringVar(&title, "title", "", "question title for the page heading (defaults to the id)")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for terminal and plain output")
	return cmd
}

func renderPage(page answers.Page, format string, width, imageMaxWidth int) string {
	switch format {
	case formatHTML:
		return answers.HTMLDocument(page, imageMaxWidth)
	case formatPlain:
		return strings.Join(answers.Lines(page, answers.ModePlain, answers.Options{Width: width}), "\n")
	default:
		return strings.Join(answers.Lines(page, answers.ModeRich, answers.Options{Width: width, ImageMaxWidth: imageMaxWidth}), "\n")
	}
}
