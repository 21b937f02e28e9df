// Package export writes study artifacts to spreadsheet files.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/pagelm/study-cli/internal/model"
)

// flashcardHeader is the first row of every exported sheet.
var flashcardHeader = []string{"Question", "Answer", "Tags"}

// FlashcardsXLSX writes flashcards to an XLSX workbook at path. The sheet is
// named after topic when one is given.
func FlashcardsXLSX(path, topic string, cards []model.Flashcard) error {
	f := xlsx.NewFile()

	name := sheetName(topic)
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %q", name)
	}

	header := sheet.AddRow()
	for _, h := range flashcardHeader {
		header.AddCell().SetString(h)
	}

	for _, card := range cards {
		row := sheet.AddRow()
		row.AddCell().SetString(card.Question)
		row.AddCell().SetString(card.Answer)
		row.AddCell().SetString(strings.Join(card.Tags, ", "))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

// sheetName produces a valid sheet name: XLSX caps names at 31 characters
// and forbids a handful of punctuation characters.
func sheetName(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "Flashcards"
	}
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	topic = strings.TrimSpace(replacer.Replace(topic))
	if topic == "" {
		return "Flashcards"
	}
	runes := []rune(topic)
	if len(runes) > 31 {
		topic = string(runes[:31])
	}
	return topic
}
