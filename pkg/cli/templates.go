package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/sesuite-go/sesuite/pkg/attribute"
	"github.com/sesuite-go/sesuite/pkg/cli/internal/output"
	"github.com/sesuite-go/sesuite/pkg/cli/internal/parse"
	"github.com/sesuite-go/sesuite/pkg/soap"
	"github.com/sesuite-go/sesuite/pkg/template"
)

var (
	renderValues []string
	renderFields []string
	renderPretty bool
)

// TemplateInfo describes a request template.
type TemplateInfo struct {
	Name       string `json:"name"`
	Action     string `json:"action,omitempty"`
	SOAPAction string `json:"soapAction,omitempty"`
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the request templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		infos := templateInfos(template.New())
		return printResult(cmd, infos, func(w io.Writer) {
			tw := output.Table(w)
			fmt.Fprintln(tw, "TEMPLATE\tSOAP ACTION")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.SOAPAction)
			}
			_ = tw.Flush()
		})
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <action|template>",
	Short: "Render a request body without sending it",
	Long: `Render a request template with the given values and print the XML.

The argument is an action name (executeActivity) or a template name
(actions/execute_activity.xml). --field values are rendered as table fields
for getTableRecord and as entity attributes otherwise.`,
	Example: `  sesuite render cancelWorkflow --set WorkflowID=WF-1 --set Explanation=dup --pretty`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := template.New()
		name, action := resolveTemplate(args[0])
		if !engine.Has(name) {
			return fmt.Errorf("%w: %s", template.ErrTemplateNotFound, args[0])
		}

		set, err := parse.Map(renderValues)
		if err != nil {
			return err
		}
		values := make(template.Values, len(set)+2)
		for k, v := range set {
			values[k] = v
		}
		if err := addRenderFields(engine, action, values); err != nil {
			return err
		}

		out, err := engine.Render(name, values)
		if err != nil {
			return err
		}
		if renderPretty {
			if out, err = indentXML(out); err != nil {
				return err
			}
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd, renderCmd)
	renderCmd.Flags().StringArrayVar(&renderValues, "set", nil, "Template value as Key=value (repeatable)")
	renderCmd.Flags().StringArrayVar(&renderFields, "field", nil, "Field as id=value (repeatable)")
	renderCmd.Flags().BoolVar(&renderPretty, "pretty", false, "Re-indent the rendered XML")
}

func templateInfos(engine *template.Engine) []TemplateInfo {
	byTemplate := make(map[string]soap.Action)
	for _, a := range soap.Actions() {
		byTemplate[a.Template()] = a
	}

	var infos []TemplateInfo
	for _, name := range engine.Names() {
		info := TemplateInfo{Name: name}
		if a, ok := byTemplate[name]; ok {
			c := soap.Workflow
			if a == soap.ActionGetTableRecord {
				c = soap.Form
			}
			info.Action = a.String()
			info.SOAPAction = a.Header(c)
		}
		infos = append(infos, info)
	}
	return infos
}

// resolveTemplate maps an action name to its template; other names are
// returned unchanged.
func resolveTemplate(arg string) (string, soap.Action) {
	if a := soap.Action(arg); a.Valid() {
		return a.Template(), a
	}
	for _, a := range soap.Actions() {
		if a.Template() == arg {
			return arg, a
		}
	}
	return arg, ""
}

func addRenderFields(engine *template.Engine, action soap.Action, values template.Values) error {
	fields, err := parse.Fields(renderFields)
	if err != nil {
		return err
	}

	var key string
	var frags []template.Fragment
	switch action {
	case soap.ActionGetTableRecord:
		key = "TableFields"
		frags, err = attribute.RenderTableFields(engine, slices.Collect(attribute.TableFields(fields...)))
	case soap.ActionNewChildEntityRecord:
		key = "EntityAttributes"
		frags, err = attribute.RenderEntities(engine, slices.Collect(attribute.Entities(fields...)))
	default:
		key = "Entities"
		frags, err = attribute.RenderEntities(engine, slices.Collect(attribute.Entities(fields...)))
	}
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		values[key] = frags
	}
	return nil
}

// indentXML re-indents xml with two spaces.
func indentXML(xml string) (string, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromString(xml); err != nil {
		return "", fmt.Errorf("rendered XML does not parse: %w", err)
	}
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	return strings.TrimLeft(out, "\n"), nil
}
