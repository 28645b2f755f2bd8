package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/zhihu-cli/internal/app"
	"github.com/glabrego/zhihu-cli/internal/storage"
)

func newCookieCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookie",
		Short: "Manage the stored zhihu cookie",
	}

	set := &cobra.Command{
		Use:   "set <value>",
		Short: "Store the cookie sent with every request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.TrimSpace(args[0])
			if value == "" {
				return errors.New("cookie value is empty; use `zhihu cookie clear` to remove it")
			}
			rt, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.saveSettings(app.Settings{Mode: rt.storedSettings().Mode, Credential: value, HasCredential: true}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cookie saved")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.saveSettings(app.Settings{Mode: rt.storedSettings().Mode}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cookie cleared")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether a cookie is stored, without printing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openSession(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			if rt.cfg.Cookie != "" {
				fmt.Fprintln(out, "cookie: set (from ZHIHU_COOKIE / config file)")
			} else if !rt.storedSettings().HasCredential {
				fmt.Fprintln(out, "cookie: not set")
			} else {
				updated, ok, err := rt.repo.SettingUpdatedAt(cmd.Context(), storage.KeyCookie)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(out, "cookie: set (saved %s)\n", updated.Local().Format(time.DateTime))
				} else {
					fmt.Fprintln(out, "cookie: set")
				}
			}
			fmt.Fprintf(out, "render mode: %s\n", rt.storedSettings().Mode)
			return nil
		},
	}

	cmd.AddCommand(set, clearCmd, status)
	return cmd
}
