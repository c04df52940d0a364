package llm

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ReplySpec configures how the model is steered toward the structured
// two-field reply. It is loaded from a YAML prompt file so the wording can be
// tuned without a rebuild; built-in defaults apply when no file exists.
type ReplySpec struct {
	// System is an optional default system prompt, used only when the request
	// starts a fresh conversation without supplying one.
	System string `yaml:"system"`
	// Instruction is appended to every user prompt to request the JSON shape.
	Instruction string `yaml:"instruction"`
	Style       struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

const defaultInstruction = `Respond ONLY with a JSON object of the form ` +
	`{"output": "...", "summary": "..."}. "output" must be a single short ` +
	`token such as "yes", "no" or "unknown"; "summary" is a brief explanation.`

// LoadReplySpec reads the prompt spec from path. A missing file is not an
// error; defaults are returned so the binary runs standalone.
func LoadReplySpec(path string) (*ReplySpec, error) {
	spec := &ReplySpec{Instruction: defaultInstruction}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return spec, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, spec); err != nil {
		return nil, err
	}
	if spec.Instruction == "" {
		spec.Instruction = defaultInstruction
	}
	return spec, nil
}
