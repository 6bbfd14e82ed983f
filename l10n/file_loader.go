package l10n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileLoader is the default ResourceLoader: it reads FTL source from
// disk under a fixed anchor directory, substituting a {locale}
// placeholder into a path template.
//
// The anchor directory is resolved once at construction and every
// subsequent load is checked to still live underneath it — rejecting a
// locale or resourceID that tries to escape via "..", an absolute
// resourceID, a path separator inside locale, or an empty path
// component, the same defensive shape as the teacher's relative-path
// helpers in file/path.go generalized from a cwd-relative display path
// to a containment check.
type FileLoader struct {
	anchor       string
	pathTemplate string
}

// NewFileLoader returns a FileLoader rooted at anchorDir. pathTemplate
// must contain the literal substring "{locale}" and is joined against
// anchorDir; resourceID is then joined onto the templated directory.
// For example, pathTemplate "{locale}/messages" with resourceID "main"
// loads anchorDir/<locale>/messages/main.ftl.
func NewFileLoader(anchorDir, pathTemplate string) (*FileLoader, error) {
	if !strings.Contains(pathTemplate, "{locale}") {
		return nil, fmt.Errorf("l10n: pathTemplate must contain {locale}")
	}
	abs, err := filepath.Abs(anchorDir)
	if err != nil {
		return nil, fmt.Errorf("l10n: resolving anchor directory: %w", err)
	}
	return &FileLoader{anchor: abs, pathTemplate: pathTemplate}, nil
}

// Load implements ResourceLoader.
func (f *FileLoader) Load(locale, resourceID string) (string, error) {
	path, err := f.resolvePath(locale, resourceID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Locale: locale, ResourceID: resourceID, Path: path}
		}
		return "", fmt.Errorf("l10n: reading %s: %w", path, err)
	}
	return string(data), nil
}

// DescribePath implements ResourceLoader.
func (f *FileLoader) DescribePath(locale, resourceID string) string {
	path, err := f.resolvePath(locale, resourceID)
	if err != nil {
		return fmt.Sprintf("<invalid: %s>", err)
	}
	return path
}

func (f *FileLoader) resolvePath(locale, resourceID string) (string, error) {
	if err := validateComponent("locale", locale); err != nil {
		return "", err
	}
	if filepath.IsAbs(resourceID) {
		return "", fmt.Errorf("l10n: resourceID %q must not be absolute", resourceID)
	}
	for _, part := range strings.Split(filepath.ToSlash(resourceID), "/") {
		if err := validateComponent("resourceID", part); err != nil {
			return "", err
		}
	}

	dir := strings.ReplaceAll(f.pathTemplate, "{locale}", locale)
	rel := filepath.Join(dir, resourceID+".ftl")
	full := filepath.Join(f.anchor, rel)

	full = filepath.Clean(full)
	if full != f.anchor && !strings.HasPrefix(full, f.anchor+string(filepath.Separator)) {
		return "", fmt.Errorf("l10n: resolved path %q escapes anchor directory %q", full, f.anchor)
	}
	return full, nil
}

func validateComponent(field, s string) error {
	if s == "" {
		return fmt.Errorf("l10n: %s must not be empty", field)
	}
	if s == ".." || strings.Contains(s, "..") {
		return fmt.Errorf("l10n: %s %q must not contain \"..\"", field, s)
	}
	if strings.ContainsAny(s, "/\\") {
		return fmt.Errorf("l10n: %s %q must not contain a path separator", field, s)
	}
	return nil
}
