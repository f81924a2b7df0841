package file

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/wayfinder/pkg/domain"
)

func unmarshal(name string, data []byte, v any) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return json.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("unsupported artifact format %q", path.Ext(name))
}

func baseID(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ParseGraph decodes a graph artifact. name selects the format by extension and
// supplies the id when the document has none. The graph is not validated.
func ParseGraph(name string, data []byte) (*domain.Graph, error) {
	var g domain.Graph
	if err := unmarshal(name, data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse graph %s: %w", name, err)
	}
	if g.ID == "" {
		g.ID = baseID(name)
	}
	g.Normalize()
	return &g, nil
}

// ParseSurvey decodes a survey artifact. Questions without an explicit order are
// numbered by position, starting at 1.
func ParseSurvey(name string, data []byte) (*domain.Survey, error) {
	var s domain.Survey
	if err := unmarshal(name, data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse survey %s: %w", name, err)
	}
	if s.ID == "" {
		s.ID = baseID(name)
	}
	for i := range s.Questions {
		s.Questions[i].SurveyID = s.ID
		if s.Questions[i].Order == 0 {
			s.Questions[i].Order = i + 1
		}
	}
	return &s, nil
}
