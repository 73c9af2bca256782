package main

import (
	"os"

	"github.com/open-cli-collective/ciceromark-cli/internal/cmd/root"
	"github.com/open-cli-collective/ciceromark-cli/internal/view"
)

func main() {
	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		r := view.NewRenderer(view.FormatPlain, false)
		r.SetWriter(os.Stderr)
		r.Error(err.Error())
		os.Exit(1)
	}
}
