package cli

import (
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/replicate/sigcli/pkg/util/console"
)

// GenMarkdownTree writes one markdown page per command into dir.
func (a *App) GenMarkdownTree(dir string) error {
	defaultMap, err := a.loadDefaultMap()
	if err != nil {
		return err
	}
	r := &runner{app: a, defaultMap: defaultMap}
	root, err := r.build()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	root.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(root, dir); err != nil {
		return err
	}
	console.Infof("Wrote command reference to %s", dir)
	return nil
}
