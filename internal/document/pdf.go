package document

import (
	"bytes"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/intellimulti/chat-backend/internal/entity"
)

// ExtractPages reads per-page plain text from raw PDF bytes. Pages are
// numbered from 1 in document order. Unreadable bytes yield a
// *entity.DocumentParseError so the caller can fall back to a turn
// without citations.
func ExtractPages(data []byte, filename string) ([]entity.Page, error) {
	if len(data) == 0 {
		return nil, &entity.DocumentParseError{
			Filename: filename,
			Err:      fmt.Errorf("empty file"),
		}
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &entity.DocumentParseError{Filename: filename, Err: err}
	}

	var pages []entity.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, entity.Page{Number: i, Text: text})
	}

	return pages, nil
}
