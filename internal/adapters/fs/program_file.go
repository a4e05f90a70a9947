package fs

import (
	"os"

	"github.com/bft-labs/petship/internal/domain"
)

// ProgramFile implements ports.ProgramSource by reading from the local file
// system.
type ProgramFile struct{}

// NewProgramFile creates a new ProgramFile.
func NewProgramFile() *ProgramFile {
	return &ProgramFile{}
}

// Read returns the whole file at path. A missing file is reported as
// domain.ErrFileNotFound and any other failure as domain.ErrFileReadError.
func (ProgramFile) Read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, domain.ClassifyReadError(path, err)
	}
	if info.IsDir() {
		return nil, &domain.Error{Kind: domain.KindFileReadError, Msg: path + " is a directory"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ClassifyReadError(path, err)
	}
	return data, nil
}
