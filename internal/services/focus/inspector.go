package focus

import "context"

// FileInspector answers focus queries from the bridge file.
type FileInspector struct {
	path string
}

// NewFileInspector creates an inspector over the bridge file at path.
func NewFileInspector(path string) *FileInspector {
	return &FileInspector{path: path}
}

// Path returns the bridge file path.
func (f *FileInspector) Path() string {
	return f.path
}

// FocusedTabURL returns the URL of the active tab in the focused window, or ""
// when nothing is focused.
func (f *FileInspector) FocusedTabURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	snap, err := ReadSnapshot(f.path)
	if err != nil {
		return "", err
	}
	return snap.FocusedURL(), nil
}
