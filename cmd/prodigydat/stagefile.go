package main

import (
	"fmt"
	"os"

	"github.com/retrohex/prodigydat/internal/stage/stagefile"
)

// loadStageFile reads path and decodes it as a STAGE.DAT container.
func loadStageFile(path string) (*stagefile.StageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sf, err := stagefile.Load(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return sf, nil
}
