package compose

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stagehand/internal/artifact"
	"stagehand/internal/interview"
	"stagehand/internal/stage"
	"stagehand/internal/workflow"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.md"))

var titleCaser = cases.Title(language.English)

type scaffoldData struct {
	Feature artifact.FeatureID
	Title   string
	Stage   string
	Date    string
	Answers []interview.Answer
}

// Scaffold returns a producer that renders the stage's embedded markdown
// skeleton, folding interview answers into a Decisions section. It is the
// default body source when a run supplies no file, stream, or editor.
func Scaffold(st stage.Stage) workflow.ContentProducer {
	return func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
		return RenderScaffold(st, feature, answers)
	}
}

// RenderScaffold renders the stage template directly.
func RenderScaffold(st stage.Stage, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
	name := string(st.Name) + ".md"
	if templates.Lookup(name) == nil {
		return "", fmt.Errorf("no scaffold template for stage %s", st.Name)
	}
	data := scaffoldData{
		Feature: feature,
		Title:   titleCaser.String(strings.ReplaceAll(feature.Slug, "-", " ")),
		Stage:   st.DisplayName(),
		Date:    time.Now().UTC().Format("2006-01-02"),
		Answers: answers,
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s scaffold: %w", st.Name, err)
	}
	return buf.String(), nil
}
