package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/ui"
	"github.com/4ndymcfly/linuxmole/pkg/whitelist"
)

var (
	wlAdd    string
	wlRemove string
	wlTest   string
	wlEdit   bool
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage protected path patterns",
	Long:  "Show, add, remove, or test the glob patterns that protect paths from every destructive operation. Built-in patterns are always active.",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := loadWhitelist()
		if err != nil {
			return err
		}

		switch {
		case wlAdd != "":
			if err := wl.Add(wlAdd); err != nil {
				return err
			}
			fmt.Println(ui.LineOK("added " + wlAdd))
			return nil

		case wlRemove != "":
			if err := wl.Remove(wlRemove); err != nil {
				return err
			}
			fmt.Println(ui.LineOK("removed " + wlRemove))
			return nil

		case wlTest != "":
			if pat, ok := wl.Match(wlTest); ok {
				fmt.Println(ui.LineWarn(fmt.Sprintf("%s is protected by %s", wlTest, pat)))
			} else {
				fmt.Println(ui.LineOK(wlTest + " is not protected"))
			}
			return nil

		case wlEdit:
			path, err := config.WhitelistPath()
			if err != nil {
				return err
			}
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}
			ed := exec.Command(editor, path)
			ed.Stdin = os.Stdin
			ed.Stdout = os.Stdout
			ed.Stderr = os.Stderr
			return ed.Run()
		}

		fmt.Println(ui.Section("Whitelist"))
		for _, p := range wl.Patterns() {
			if p.Source == whitelist.SourceBuiltIn {
				fmt.Println(ui.LineSkip(p.Glob + "  (built-in)"))
			} else {
				fmt.Println(ui.LineDo(p.Glob))
			}
		}
		return nil
	},
}

func init() {
	whitelistCmd.Flags().StringVar(&wlAdd, "add", "", "Add a protection pattern")
	whitelistCmd.Flags().StringVar(&wlRemove, "remove", "", "Remove a user pattern")
	whitelistCmd.Flags().StringVar(&wlTest, "test", "", "Check whether a path is protected")
	whitelistCmd.Flags().BoolVar(&wlEdit, "edit", false, "Open the whitelist file in $EDITOR")
}
