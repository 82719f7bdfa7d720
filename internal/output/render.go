package output

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/waabox/pipecheck/internal/domain"
)

// Supported render formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// Render serializes a workflow result in the requested format. Markdown
// renders only the report narrative; json and yaml render the full envelope.
func Render(result domain.WorkflowResult, format string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding result as json: %w", err)
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("encoding result as yaml: %w", err)
		}
		return string(data), nil
	case FormatMarkdown:
		if result.Outputs.Report == nil {
			return "", fmt.Errorf("no report available: workflow status is %q", result.WorkflowInfo.Status)
		}
		return result.Outputs.Report.Markdown, nil
	}
	return "", fmt.Errorf("unsupported output format %q", format)
}
