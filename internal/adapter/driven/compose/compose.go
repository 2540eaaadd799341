// Package compose scans a docker-compose file for services opted into
// release watching via the "autonope" label.
package compose

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// watchLabel is the label that opts a compose service into release watching.
const watchLabel = "autonope"

type composeFile struct {
	Services map[string]service `yaml:"services"`
}

type service struct {
	Image  string `yaml:"image"`
	Labels labels `yaml:"labels"`
}

// labels accepts both compose label forms: a list of "key" / "key=value"
// strings, or a mapping.
type labels []string

func (l *labels) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	case yaml.MappingNode:
		var m map[string]string
		if err := node.Decode(&m); err != nil {
			return err
		}
		// Keep both keys and values so "autonope:" and "watch: autonope"
		// map forms both match.
		out := make([]string, 0, 2*len(m))
		for k, v := range m {
			out = append(out, k, v)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("labels: unsupported YAML node kind %d", node.Kind)
	}
}

// LabeledImages parses the compose file at path and returns the images of all
// services carrying the autonope label. Services without an image are skipped.
func LabeledImages(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compose file: %w", err)
	}

	var cf composeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse compose file %s: %w", path, err)
	}

	var images []string
	for _, svc := range cf.Services {
		if svc.Image == "" || !hasWatchLabel(svc.Labels) {
			continue
		}
		images = append(images, svc.Image)
	}

	return images, nil
}

// hasWatchLabel matches "autonope" as a bare label, as the key of a
// "key=value" list entry, or as a map key or value.
func hasWatchLabel(ls labels) bool {
	for _, l := range ls {
		key, _, _ := strings.Cut(l, "=")
		if strings.TrimSpace(key) == watchLabel {
			return true
		}
	}
	return false
}
