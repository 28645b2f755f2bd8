package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/zhihu-cli/internal/app"
	"github.com/glabrego/zhihu-cli/internal/controller"
	"github.com/glabrego/zhihu-cli/internal/tui"
	"github.com/glabrego/zhihu-cli/internal/zhihu"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "zhihu",
		Short:         "Read zhihu recommendations and answers in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openSession(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runTUI(cmd, rt)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (ZHIHU_* env vars override it; a cookie set there is used but never saved)")

	root.AddCommand(
		newFeedCmd(&configPath),
		newAnswersCmd(&configPath),
		newCookieCmd(&configPath),
	)
	return root
}

func runTUI(cmd *cobra.Command, rt *session) error {
	model := tui.NewModel(controller.Options{
		Fetcher: rt.service,
		Gate:    rt.gate,
		Logger:  rt.logger,
		Mode:    rt.storedSettings().Mode,
		// one list request plus one detail request per answer
		FetchTimeout: rt.cfg.HTTPTimeout * (zhihu.PageSize + 1),
		Save: func(s controller.Settings) error {
			return rt.saveViewSettings(app.Settings{
				Mode:          s.Mode,
				Credential:    s.Credential,
				HasCredential: s.HasCredential,
			})
		},
	}, tui.Options{ImageMaxWidth: rt.cfg.ImageMaxWidth})

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil {
		rt.logger.Error("tui exited with error", "err", err)
		return err
	}
	return nil
}
