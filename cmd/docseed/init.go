package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/docseed"
	"github.com/autom8ter/docseed/testutil"
	"github.com/spf13/cobra"
)

var configTemplate = `# docseed configuration
provider: {{ .provider }}
params:
{{- if eq .provider "firestore" }}
  project_id: {{ .project | quote }}
  credentials_file: serviceAccountKey.json
{{- else if eq .provider "badger" }}
  storage_path: ./tmp
{{- else }}
  {}
{{- end }}
log_level: info
fixtures_dir: fixtures
plans:
  - name: {{ .project | snakecase }}_careers
    fixture: careers.json
    collection: careers
    shape: flat
    mode: batch
`

func initCmd(flags *globalFlags) *cobra.Command {
	var (
		projectPath string
		project     string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "create a new docseed project with a config file and sample fixtures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(filepath.Join(projectPath, "fixtures"), 0755); err != nil {
				return err
			}
			fixtures := map[string][]byte{
				"careers.json":   testutil.CareersFixture(),
				"resources.json": testutil.ResourcesFixture(),
				"quizzes.json":   testutil.QuizzesFixture(),
			}
			for name, content := range fixtures {
				if err := os.WriteFile(filepath.Join(projectPath, "fixtures", name), content, 0644); err != nil {
					return err
				}
			}
			provider := flags.provider
			if provider == "" {
				provider = docseed.DefaultProvider
			}
			tmpl, err := template.New("config").Funcs(sprig.TxtFuncMap()).Parse(configTemplate)
			if err != nil {
				return err
			}
			f, err := os.Create(filepath.Join(projectPath, "docseed.yaml"))
			if err != nil {
				return err
			}
			defer f.Close()
			if err := tmpl.Execute(f, map[string]any{
				"provider": provider,
				"project":  project,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "new project created: %v\n", projectPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectPath, "path", "p", ".", "path to project directory")
	cmd.Flags().StringVar(&project, "project", "my-project", "firestore project id")
	return cmd
}
