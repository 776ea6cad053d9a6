// Command docmerge inspects, validates and renders document templates.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/benjaminschreck/go-docmerge/pkg/docmerge"
	"github.com/benjaminschreck/go-docmerge/pkg/docmerge/form"
)

const version = "0.2.0"

// CLI defines the command-line interface for docmerge.
type CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error, off)" default:"${log_level}"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"${log_format}"`
	NoColor   bool   `name:"no-color" help:"Disable colored output"`

	Fields   FieldsCmd   `cmd:"" help:"List the directives of a template"`
	Render   RenderCmd   `cmd:"" help:"Merge an answer file into a template"`
	Validate ValidateCmd `cmd:"" help:"Check directive nesting of a template"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// app carries what every command needs.
type app struct {
	out    io.Writer
	engine *docmerge.Engine
}

// FieldsCmd prints the element tree, or the derived form with --form.
type FieldsCmd struct {
	Template string `arg:"" help:"Template file (.docx or text)" type:"existingfile"`
	Form     bool   `help:"Print form fields instead of the element tree"`
	Text     bool   `help:"Include literal text elements"`
}

func (c *FieldsCmd) Run(a *app) error {
	elements, err := a.tokenize(c.Template)
	if err != nil {
		return err
	}

	if c.Form {
		printForm(a.out, form.Build(elements))
		return nil
	}
	printTree(a.out, elements, c.Text)
	return nil
}

// RenderCmd merges answers into a template.
type RenderCmd struct {
	Template string `arg:"" help:"Template file (.docx or text)" type:"existingfile"`
	Answers  string `short:"a" help:"YAML or JSON answer file" type:"existingfile"`
	Output   string `short:"o" help:"Output path (default stdout)" type:"path"`
}

func (c *RenderCmd) Run(a *app) error {
	answers := docmerge.AnswerMap{}
	if c.Answers != "" {
		loaded, err := docmerge.LoadAnswersFile(c.Answers)
		if err != nil {
			return err
		}
		answers = loaded
	}

	data, err := os.ReadFile(c.Template)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	var rendered bytes.Buffer
	if isDocx(c.Template) {
		if err := a.engine.RenderDocx(bytes.NewReader(data), int64(len(data)), answers, &rendered); err != nil {
			return err
		}
	} else {
		out, err := a.engine.Render(string(data), answers)
		if err != nil {
			return err
		}
		rendered.WriteString(out)
	}

	if c.Output == "" {
		_, err := a.out.Write(rendered.Bytes())
		return err
	}
	if err := os.WriteFile(c.Output, rendered.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	docmerge.WithFields(docmerge.Fields{
		"template": c.Template,
		"output":   c.Output,
		"bytes":    rendered.Len(),
	}).Info("Rendered template")
	return nil
}

// ValidateCmd checks a template for structural errors.
type ValidateCmd struct {
	Templates []string `arg:"" help:"Template files (.docx or text)"`
}

func (c *ValidateCmd) Run(a *app) error {
	failed := 0
	for _, path := range c.Templates {
		if _, err := a.tokenize(path); err != nil {
			failed++
			fmt.Fprintf(a.out, "%s %s: %v\n", color.RedString("FAIL"), path, err)
			continue
		}
		fmt.Fprintf(a.out, "%s %s\n", color.GreenString("ok"), path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed validation", failed, len(c.Templates))
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "docmerge version %s\n", version)
	return nil
}

func (a *app) tokenize(path string) ([]docmerge.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if isDocx(path) {
		return a.engine.TokenizeDocx(bytes.NewReader(data), int64(len(data)))
	}
	return a.engine.Tokenize(string(data))
}

func isDocx(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx")
}

var (
	variableColor = color.New(color.FgCyan)
	blockColor    = color.New(color.FgYellow, color.Bold)
	textColor     = color.New(color.Faint)
)

func printTree(w io.Writer, elements []docmerge.Element, withText bool) {
	docmerge.Walk(elements, func(el docmerge.Element, depth int) bool {
		indent := strings.Repeat("  ", depth)

		switch e := el.(type) {
		case *docmerge.PlainText:
			if withText {
				fmt.Fprintf(w, "%s%s %q\n", indent, textColor.Sprint("text"), e.Content)
			}
		case *docmerge.Variable:
			fmt.Fprintf(w, "%s%s %s (%s)%s\n", indent, variableColor.Sprint("variable"), e.Name, e.Type, describe(e.Label, e.Hint))
		case *docmerge.Conditional:
			fmt.Fprintf(w, "%s%s %s%s\n", indent, blockColor.Sprint("if"), e.Name, describe(e.Label, ""))
		case *docmerge.RepeatingGroup:
			fmt.Fprintf(w, "%s%s %s%s\n", indent, blockColor.Sprint("repeat"), e.Name, describe(e.Label, ""))
		}
		return true
	})
}

func printForm(w io.Writer, fields []form.Field) {
	form.Walk(fields, func(f form.Field, depth int) {
		indent := strings.Repeat("  ", depth)
		control := variableColor
		if len(f.Children) > 0 || f.Control == form.ControlToggle || f.Control == form.ControlRepeat {
			control = blockColor
		}
		fmt.Fprintf(w, "%s%s %s %q%s\n", indent, control.Sprint(f.Control), f.Name, f.Label, describe("", f.Hint))
	})
}

func describe(label, hint string) string {
	var parts []string
	if label != "" {
		parts = append(parts, fmt.Sprintf("label=%q", label))
	}
	if hint != "" {
		parts = append(parts, fmt.Sprintf("hint=%q", hint))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

// run parses args and executes the selected command. It is main without
// the process exit, so tests can drive it.
func run(args []string, stdout, stderr io.Writer) error {
	env := docmerge.GetGlobalConfig()

	var cli CLI
	a := &app{out: stdout}
	parser, err := kong.New(&cli,
		kong.Name("docmerge"),
		kong.Description("Merge answers into DOCX and text templates"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"log_level":  env.LogLevel,
			"log_format": env.LogFormat,
		},
		kong.Bind(a),
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	config := docmerge.GetGlobalConfig()
	config.LogLevel = cli.LogLevel
	config.LogFormat = cli.LogFormat
	if err := config.Validate(); err != nil {
		return err
	}
	docmerge.SetLogger(docmerge.NewLoggerFromConfig(stderr, config))
	docmerge.SetGlobalConfig(config)

	if cli.NoColor {
		color.NoColor = true
	}

	a.engine = docmerge.NewWithConfig(config)
	return ctx.Run()
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}
