// Package merge concatenates PDF documents.
package merge

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrMissingInput is returned when an input document does not exist.
var ErrMissingInput = errors.New("missing input document")

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	api.DisableConfigDir()
}

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge writes the pages of inputs, in list order, to out and returns the
// page count of the result. Every input is checked before anything is written.
func Merge(inputs []string, out string) (int, error) {
	if len(inputs) == 0 {
		return 0, errors.New("merge: no input documents")
	}
	for _, in := range inputs {
		if _, err := os.Stat(in); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return 0, fmt.Errorf("%w: %s", ErrMissingInput, in)
			}
			return 0, fmt.Errorf("stat %s: %w", in, err)
		}
	}

	if err := api.MergeCreateFile(inputs, out, false, configuration()); err != nil {
		return 0, fmt.Errorf("merge pdfs: %w", err)
	}
	return PageCount(out)
}

// PageCount returns the number of pages in a PDF file.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages of %s: %w", path, err)
	}
	return n, nil
}
