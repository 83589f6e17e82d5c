package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/triagedesk/internal/application/submission"
	"github.com/bryanwahyu/triagedesk/internal/config"
	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
	"github.com/bryanwahyu/triagedesk/internal/infra/diagnosisapi"
	"github.com/bryanwahyu/triagedesk/internal/middleware"
	"github.com/bryanwahyu/triagedesk/internal/render"
)

type analyzeOptions struct {
	schema  string
	apiURL  string
	lang    string
	asJSON  bool
	style   string
	width   int
	timeout time.Duration

	// one flag per form field, keyed by field name
	fields map[diagnosis.Field]*string
}

var fieldFlags = map[diagnosis.Field]string{
	diagnosis.FieldDescription: "symptom description (or pass it as arguments, '-' reads stdin)",
	diagnosis.FieldFirstName:   "patient first name",
	diagnosis.FieldLastName:    "patient last name",
	diagnosis.FieldAge:         "age in years",
	diagnosis.FieldGender:      "female, male or other",
	diagnosis.FieldHeight:      "height in cm",
	diagnosis.FieldWeight:      "weight in kg",
	diagnosis.FieldSeverity:    "self-assessed severity 1-10",
	diagnosis.FieldHistory:     "medical history",
	diagnosis.FieldVitals:      "vital signs",
	diagnosis.FieldMedications: "current medications",
}

func flagName(f diagnosis.Field) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	opts := &analyzeOptions{fields: map[diagnosis.Field]*string{}}

	cmd := &cobra.Command{
		Use:   "analyze [description...]",
		Short: "Submit one symptom description and print the pre-diagnosis",
		Example: `  triagedesk analyze "J'ai mal au ventre en bas à droite depuis ce matin"
  triagedesk analyze --schema analyze --first-name Ana --last-name Diaz --height 170 --weight 60 "fièvre et toux"
  echo "headache and nausea" | triagedesk analyze --lang en -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), c, opts, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.schema, "schema", "", "API schema: "+strings.Join(diagnosisapi.Names(), ", ")+" (default from config)")
	fl.StringVar(&opts.apiURL, "api-url", "", "diagnosis API base URL (default from config)")
	fl.StringVar(&opts.lang, "lang", "", "response language (default from config)")
	fl.BoolVar(&opts.asJSON, "json", false, "print the normalized response as JSON")
	fl.StringVar(&opts.style, "style", "dark", "terminal style: dark, light, notty, ascii")
	fl.IntVar(&opts.width, "width", 80, "word wrap width")
	fl.DurationVar(&opts.timeout, "timeout", 0, "API timeout (default from config)")
	for _, f := range diagnosis.Fields {
		opts.fields[f] = fl.String(flagName(f), "", fieldFlags[f])
	}
	return cmd
}

// collaborators resolves schema, client and language from flags over config.
func (o *analyzeOptions) collaborators(cfg *config.Config, log *zap.Logger) (*diagnosisapi.Client, *i18n.Translator, string, error) {
	if o.schema != "" {
		cfg.API.Schema = o.schema
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.timeout > 0 {
		cfg.API.Timeout = o.timeout
	}
	schema, err := cfg.Schema()
	if err != nil {
		return nil, nil, "", err
	}
	base, err := cfg.BaseURL()
	if err != nil {
		return nil, nil, "", err
	}
	client, err := diagnosisapi.NewClient(base, schema, cfg.API.Timeout, diagnosisapi.WithLogger(log))
	if err != nil {
		return nil, nil, "", err
	}

	tr, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		return nil, nil, "", err
	}
	lang := tr.Default().String()
	if o.lang != "" {
		if !tr.IsSupported(o.lang) {
			return nil, nil, "", fmt.Errorf("unsupported language %q", o.lang)
		}
		lang = tr.Match(o.lang).String()
	}
	return client, tr, lang, nil
}

// form collects the schema's fields from flags and positional arguments.
func (o *analyzeOptions) form(schema diagnosisapi.Schema, args []string, stdin io.Reader) (diagnosis.Form, error) {
	form := diagnosis.Form{}
	for _, f := range schema.Fields() {
		if v := *o.fields[f]; v != "" {
			form[f] = v
		}
	}
	if len(args) > 0 {
		if form.Get(diagnosis.FieldDescription) != "" {
			return nil, errors.New("description given both as --description and as arguments")
		}
		desc := strings.Join(args, " ")
		if desc == "-" {
			b, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			desc = string(b)
		}
		form[diagnosis.FieldDescription] = desc
	}
	return middleware.SanitizeForm(form), nil
}

func runAnalyze(ctx context.Context, c *cli, o *analyzeOptions, args []string, stdin io.Reader, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, tr, lang, err := o.collaborators(c.cfg, c.logger.Named("diagnosisapi"))
	if err != nil {
		return err
	}
	loc := tr.For(lang)

	form, err := o.form(client.Schema(), args, stdin)
	if err != nil {
		return err
	}

	ctl, err := submission.New(client, client.Schema().Policy(), submission.WithLogger(c.logger.Named("submission")))
	if err != nil {
		return err
	}
	c.logger.Debug("submitting",
		zap.String("schema", client.Schema().Name()),
		zap.String("base_url", client.BaseURL()),
		zap.String("lang", lang),
	)

	resp, err := ctl.Submit(ctx, form, lang)
	if err != nil {
		var verr *diagnosis.ValidationError
		if errors.As(err, &verr) {
			printProblems(errOut, verr, loc)
			return errors.New(loc.T(i18n.ToastValidation))
		}
		return fmt.Errorf("%s: %w", loc.T(i18n.ToastTransport), err)
	}

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	view := render.NewRenderer().Render(resp, loc)
	text, err := render.Terminal(view, loc, render.TerminalOptions{Width: o.width, Style: o.style})
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

func printProblems(w io.Writer, verr *diagnosis.ValidationError, loc i18n.Localizer) {
	fields := make([]string, 0, len(verr.Problems))
	for f := range verr.Problems {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		p := verr.Problems[diagnosis.Field(f)]
		fmt.Fprintf(w, "  --%s: %s\n", flagName(diagnosis.Field(f)), render.ProblemMessage(p, loc))
	}
}

// policyLine summarises a policy for the schemas listing.
func policyLine(p diagnosis.Policy) string {
	var b strings.Builder
	b.WriteString("min " + strconv.Itoa(p.MinDescriptionLength))
	if p.MaxDescriptionLength > 0 {
		b.WriteString(", max " + strconv.Itoa(p.MaxDescriptionLength))
	}
	if len(p.Required) > 0 {
		names := make([]string, 0, len(p.Required))
		for _, f := range p.Required {
			names = append(names, string(f))
		}
		b.WriteString(", requires " + strings.Join(names, " "))
	}
	return b.String()
}
