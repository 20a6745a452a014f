package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/ulpiano/internal/cli/formatter"
	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// modeAliases maps the short --mode names onto lookup modes.
var modeAliases = map[string]intelligence.Mode{
	"define":       intelligence.ModeDefine,
	"generate":     intelligence.ModeGenerateCase,
	"generatecase": intelligence.ModeGenerateCase,
	"resolve":      intelligence.ModeResolveCase,
	"resolvecase":  intelligence.ModeResolveCase,
}

// modeValue is a pflag.Value that accepts the mode aliases.
type modeValue struct {
	mode intelligence.Mode
}

var _ pflag.Value = (*modeValue)(nil)

func (v *modeValue) String() string { return string(v.mode) }

func (v *modeValue) Set(s string) error {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return fmt.Errorf("unknown mode %q (want define, generate or resolve)", s)
	}
	v.mode = m
	return nil
}

func (v *modeValue) Type() string { return "mode" }

func newAskCmd(app *App) *cobra.Command {
	mode := &modeValue{mode: intelligence.ModeDefine}
	var caseText string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [term...]",
		Short: "Define a term, generate a practice case or resolve one",
		Example: `  ulpiano ask compraventa
  ulpiano ask hurto --mode generate
  ulpiano ask --mode resolve --case "Ticio vende a Cayo un esclavo ajeno..."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := mode.mode
			term := strings.Join(args, " ")

			ctx := app.context(cmd)
			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}

			stop := app.spin(cmd, "Consultando a Ulpiano...")
			resp, err := rt.Tutor.Lookup(ctx, intelligence.LookupRequest{QueryTerm: term, Mode: m, CaseText: caseText})
			stop()
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLookup(term, m, resp))
			return nil
		},
	}

	cmd.Flags().Var(mode, "mode", "Lookup mode: define, generate or resolve")
	cmd.Flags().StringVar(&caseText, "case", "", "Case text to resolve (with --mode resolve)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw response as JSON")

	return cmd
}

func newPageCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "page <term...>",
		Short: "Find the manual page that covers a term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			ctx := app.context(cmd)
			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}
			ref, err := rt.Tutor.LocatePage(ctx, intelligence.PageRequest{QueryTerm: term})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ref)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPage(term, ref))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reference as JSON")

	return cmd
}

func newModernCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "modern <term...>",
		Short: "Explain what modern law inherited from a Roman institution",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			ctx := app.context(cmd)
			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}

			stop := app.spin(cmd, "Consultando a Ulpiano...")
			ans, err := rt.Tutor.ModernLaw(ctx, intelligence.ModernRequest{QueryTerm: term})
			stop()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ans)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatModern(term, ans))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the answer as JSON")

	return cmd
}

func newKinshipCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "kinship <person1> <person2>",
		Short:   "Compute the Roman degree of kinship between two relatives",
		Example: `  ulpiano kinship "mi abuelo" "mi primo hermano"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.context(cmd)
			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}

			stop := app.spin(cmd, "Calculando parentesco...")
			ans, err := rt.Tutor.Kinship(ctx, intelligence.KinshipRequest{Person1: args[0], Person2: args[1]})
			stop()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ans)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatKinship(args[0], args[1], ans))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the answer as JSON")

	return cmd
}

// spin shows a spinner on stderr while a completion is pending. It returns
// a no-op when no terminal is attached.
func (a *App) spin(cmd *cobra.Command, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
