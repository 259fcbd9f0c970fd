package main

import (
	"io"
	"runtime"
	"text/template"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

var versionTemplate = `Version:    {{.Version}}
Commit:     {{.Commit}}
Go version: {{.GoVersion}}
OS/Arch:    {{.Os}}/{{.Arch}}
`

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the readinessd version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) error {
	tmpl, err := template.New("version").Parse(versionTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, struct {
		Version   string
		Commit    string
		GoVersion string
		Os        string
		Arch      string
	}{
		Version:   version,
		Commit:    commit,
		GoVersion: runtime.Version(),
		Os:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	})
}
