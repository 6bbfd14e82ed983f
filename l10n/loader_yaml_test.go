package l10n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// manifestLoader is a test-only ResourceLoader backed by a YAML fixture
// describing locale -> resourceID -> source mappings. It exists purely to
// exercise loading fixtures with yaml.v3; Localization itself has no
// YAML-shaped configuration surface.
type manifestLoader struct {
	Resources map[string]map[string]string `yaml:"resources"`
}

func (m *manifestLoader) Load(locale, resourceID string) (string, error) {
	byResource, ok := m.Resources[locale]
	if !ok {
		return "", &NotFoundError{Locale: locale, ResourceID: resourceID, Path: m.DescribePath(locale, resourceID)}
	}
	src, ok := byResource[resourceID]
	if !ok {
		return "", &NotFoundError{Locale: locale, ResourceID: resourceID, Path: m.DescribePath(locale, resourceID)}
	}
	return src, nil
}

func (m *manifestLoader) DescribePath(locale, resourceID string) string {
	return "manifest://" + locale + "/" + resourceID
}

const fixtureManifest = `
resources:
  en-US:
    main: |
      hello = Hi there
  fr:
    main: |
      hello = Bonjour
`

func TestLoaderFromYAMLManifest(t *testing.T) {
	t.Parallel()

	var manifest manifestLoader
	require.NoError(t, yaml.Unmarshal([]byte(fixtureManifest), &manifest))

	l, err := New(Options{Locales: []string{"en-US", "fr"}, Loader: &manifest})
	require.NoError(t, err)

	out, errs, _, err := l.FormatPattern(context.Background(), "main", "hello", nil, "")
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Equal(t, "Hi there", out)
}
