package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sangkips/template-dispatch-service/internal/config"
	"github.com/sangkips/template-dispatch-service/internal/domains/templates"
)

var (
	configFile   string
	templateBody string
	bindings     []string
)

var rootCmd = &cobra.Command{
	Use:           "messenger",
	Short:         "Render #{placeholder} templates and dispatch them by mail",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML config file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVarP(&templateBody, "template", "t", "", "template body")
	pf.String("template-file", "", "template file (.yaml definition or raw text)")
	pf.StringArrayVarP(&bindings, "bind", "b", nil, "binding as name=value; name= binds an empty string, name without = binds null")
	pf.Bool("strict", true, "validate placeholder names")
	pf.String("null-policy", "reject", "null binding handling (reject, empty)")
	pf.String("charset", "utf-8", "text normalization (utf-8, latin1)")
}

// loadConfig reads the configuration with cmd's flags applied on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.LogLevel, true)
	return cfg, nil
}

// loadTemplate builds the template from --template or --template-file and
// applies --bind values on top of any bindings the file defines.
func loadTemplate(cfg *config.Config) (*templates.Template, error) {
	var tmpl *templates.Template
	switch {
	case templateBody != "" && cfg.TemplateFile != "":
		return nil, fmt.Errorf("use either --template or --template-file, not both")
	case templateBody != "":
		tmpl = templates.New(templateBody)
	case cfg.TemplateFile != "":
		var err error
		tmpl, err = templates.LoadFile(cfg.TemplateFile)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("a template is required (--template or --template-file)")
	}

	for _, b := range bindings {
		name, value, ok := strings.Cut(b, "=")
		if name == "" {
			return nil, fmt.Errorf("invalid binding %q", b)
		}
		if !ok {
			tmpl.AddNullBinding(name)
			continue
		}
		tmpl.AddBinding(name, value)
	}
	return tmpl, nil
}

func newEngine(cfg *config.Config) (*templates.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return templates.NewEngine(opts...), nil
}
