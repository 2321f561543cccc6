package decompose

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gilchrisn/hypercut/pkg/metrics"
)

// OutputWriter interface for flexible output generation
type OutputWriter interface {
	WritePartition(result *Result, path string) error
	WriteFragments(result *Result, outputDir string, prefix string) ([]string, error)
	WriteSummary(result *Result, path string) error
	WriteAll(result *Result, outputDir string, prefix string) error
}

// FileWriter implements OutputWriter for file-based output
type FileWriter struct{}

// NewFileWriter creates a new file-based output writer
func NewFileWriter() OutputWriter {
	return &FileWriter{}
}

// WriteAll writes the partition, one DIMACS file per fragment and a summary.
func (fw *FileWriter) WriteAll(result *Result, outputDir string, prefix string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	partitionPath := filepath.Join(outputDir, prefix+".part")
	if err := fw.WritePartition(result, partitionPath); err != nil {
		return fmt.Errorf("failed to write partition: %w", err)
	}

	if _, err := fw.WriteFragments(result, outputDir, prefix); err != nil {
		return err
	}

	summaryPath := filepath.Join(outputDir, prefix+"_summary.json")
	if err := fw.WriteSummary(result, summaryPath); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// WritePartition writes the clause partition, one block per line.
func (fw *FileWriter) WritePartition(result *Result, path string) error {
	return writeFile(path, result.Partition)
}

// WriteFragments writes fragment i to <prefix>.<i>.cnf and returns the paths.
func (fw *FileWriter) WriteFragments(result *Result, outputDir string, prefix string) ([]string, error) {
	paths := make([]string, len(result.Fragments))
	for i, frag := range result.Fragments {
		paths[i] = filepath.Join(outputDir, fmt.Sprintf("%s.%d.cnf", prefix, i))
		if err := writeFile(paths[i], frag); err != nil {
			return nil, fmt.Errorf("failed to write fragment %d: %w", i, err)
		}
	}
	return paths, nil
}

type summary struct {
	RunID          string         `json:"run_id"`
	Satisfiable    bool           `json:"satisfiable"`
	Cut            []int          `json:"cut"`
	Assignment     []int          `json:"assignment,omitempty"`
	OriginalModels string         `json:"original_models,omitempty"`
	FragmentModels []string       `json:"fragment_models,omitempty"`
	Report         metrics.Report `json:"report"`
	TotalRuntimeMS int64          `json:"total_runtime_ms"`
}

// WriteSummary writes the metrics and model counts as JSON.
func (fw *FileWriter) WriteSummary(result *Result, path string) error {
	s := summary{
		RunID:          result.RunID,
		Satisfiable:    result.Satisfiable,
		Cut:            result.Cut,
		Assignment:     result.Assignment,
		Report:         result.Report,
		TotalRuntimeMS: result.TotalRuntimeMS,
	}
	if v := result.Verification; v != nil {
		s.OriginalModels = v.Original.String()
		for _, n := range v.Fragments {
			s.FragmentModels = append(s.FragmentModels, n.String())
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func writeFile(path string, w io.WriterTo) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
