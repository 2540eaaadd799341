package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCompose(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestLabeledImages_ListForm(t *testing.T) {
	path := writeCompose(t, `
services:
  widget:
    image: acme/widget:latest
    labels:
      - autonope
  plain:
    image: library/nginx:1.25
  keyed:
    image: acme/tool:1.0
    labels:
      - autonope=true
  other:
    image: acme/gadget:2.0
    labels:
      - traefik.enable=true
`)

	images, err := LabeledImages(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acme/widget:latest", "acme/tool:1.0"}, images)
}

func TestLabeledImages_MapForm(t *testing.T) {
	path := writeCompose(t, `
services:
  widget:
    image: acme/widget:latest
    labels:
      autonope: "true"
  gadget:
    image: acme/gadget:2.0
    labels:
      watch: autonope
`)

	images, err := LabeledImages(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acme/widget:latest", "acme/gadget:2.0"}, images)
}

func TestLabeledImages_SkipsServicesWithoutImage(t *testing.T) {
	path := writeCompose(t, `
services:
  built-locally:
    build: .
    labels:
      - autonope
`)

	images, err := LabeledImages(path)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestLabeledImages_MissingFile(t *testing.T) {
	_, err := LabeledImages(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLabeledImages_MalformedYAML(t *testing.T) {
	path := writeCompose(t, "services: [not: a: mapping")

	_, err := LabeledImages(path)
	require.Error(t, err)
}
