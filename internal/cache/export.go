package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export writes the raw stored payload of a live handle to path, creating
// parent directories as needed. A leading ~ expands to the user home
// directory. It returns the absolute path written and the byte count.
func (c *Cache) Export(ctx context.Context, handle, path string) (string, int, error) {
	_, payload, err := c.store.GetFull(ctx, handle, c.now())
	if err != nil {
		return "", 0, err
	}

	resolved, err := expandHome(path)
	if err != nil {
		return "", 0, err
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return "", 0, fmt.Errorf("resolve export path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", 0, fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(resolved, payload, 0o644); err != nil {
		return "", 0, fmt.Errorf("write export file: %w", err)
	}
	return resolved, len(payload), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
