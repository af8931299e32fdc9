// Package narrator asks Gemini for a personal reflection on a finished
// journey. It is optional: without an API key the presentation layer shows
// the authored character analysis only.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/ethics-journey/internal/journey"
)

//go:embed prompts/reflect_journey.txt
var reflectJourneyPrompt string

var reflectTmpl = template.Must(template.New("reflect_journey").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(reflectJourneyPrompt))

// Reflector writes a reflection on a journey summary.
type Reflector interface {
	Reflect(ctx context.Context, title string, s journey.Summary) (string, error)
}

// Narrator is a Reflector backed by a Gemini model.
type Narrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New connects to Gemini with apiKey and uses the named model.
func New(ctx context.Context, apiKey, modelName string) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	return &Narrator{
		client: client,
		model:  model,
	}, nil
}

func (n *Narrator) Close() {
	n.client.Close()
}

// Reflect renders the journey into a prompt and returns the model's text.
func (n *Narrator) Reflect(ctx context.Context, title string, s journey.Summary) (string, error) {
	prompt, err := BuildPrompt(title, s)
	if err != nil {
		return "", err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}

// BuildPrompt renders the reflection prompt for a journey.
func BuildPrompt(title string, s journey.Summary) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Title    string
		journey.Summary
	}{
		Title:   title,
		Summary: s,
	}
	if err := reflectTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
