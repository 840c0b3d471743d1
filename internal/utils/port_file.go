// internal/utils/port_file.go

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WritePortFile writes the port number to path, creating parent directories.
func WritePortFile(path string, port int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create port file directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%d", port)), 0640); err != nil {
		return fmt.Errorf("failed to write port file: %w", err)
	}
	return nil
}

// ReadPortFile reads the port number from path.
func ReadPortFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read port file: %w", err)
	}

	var port int
	if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "%d", &port); err != nil {
		return 0, fmt.Errorf("failed to parse port number: %w", err)
	}
	return port, nil
}

// DeletePortFile removes path. A missing file is not an error.
func DeletePortFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete port file: %w", err)
	}
	return nil
}
