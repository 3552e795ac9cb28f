package leadfile

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-enricher/internal/model"
)

// WriteSummaryYAML writes the run summary as YAML.
func WriteSummaryYAML(path string, summary model.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "leadfile: encode summary")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "leadfile: write %s", path)
	}
	return nil
}
