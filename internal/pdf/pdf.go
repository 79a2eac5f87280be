package pdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/mandolyte/mdtopdf"
)

// RenderNote writes a note's markdown as a PDF at pdfPath and returns the
// absolute path of the file.
func RenderNote(note entity.Note, pdfPath string) (string, error) {
	if !strings.HasSuffix(pdfPath, ".pdf") {
		return "", fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process([]byte(note.Markdown())); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}

// DefaultPath names the PDF after the note id inside dir.
func DefaultPath(dir string, note entity.Note) string {
	return filepath.Join(dir, note.ID+".pdf")
}
