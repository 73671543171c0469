package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

var (
	cfgEdit  bool
	cfgReset bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit configuration",
	Long:  "Show the active configuration, open config.toml in $EDITOR, or reset it to defaults.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.EnsureFiles(); err != nil {
			return err
		}
		path, err := config.FilePath()
		if err != nil {
			return err
		}

		switch {
		case cfgReset:
			if err := config.Save(config.Default()); err != nil {
				return err
			}
			fmt.Println(ui.LineOK("configuration reset to defaults: " + path))
			return nil

		case cfgEdit:
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.Save(config.Default()); err != nil {
					return err
				}
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

		cfg, warns := config.Load()
		for _, w := range warns {
			fmt.Fprintln(os.Stderr, ui.LineWarn(w))
		}
		fmt.Println(ui.Section("Configuration " + path))
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

func init() {
	configCmd.Flags().BoolVar(&cfgEdit, "edit", false, "Open config.toml in $EDITOR")
	configCmd.Flags().BoolVar(&cfgReset, "reset", false, "Reset config.toml to defaults")
}
