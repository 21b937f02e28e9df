package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/pagelm/study-cli/internal/model"
)

func TestFlashcardsXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	cards := []model.Flashcard{
		{Question: "What is entropy?", Answer: "A measure of disorder.", Tags: []string{"thermo", "basics"}},
		{Question: "State the second law.", Answer: "Entropy never decreases in a closed system."},
	}

	require.NoError(t, FlashcardsXLSX(path, "Thermodynamics", cards))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet["Thermodynamics"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Question", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "What is entropy?", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "thermo, basics", sheet.Rows[1].Cells[2].String())
	assert.Equal(t, "State the second law.", sheet.Rows[2].Cells[0].String())
}

func TestFlashcardsXLSX_EmptyCards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, FlashcardsXLSX(path, "", nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet["Flashcards"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 1)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Flashcards", sheetName("  "))
	assert.Equal(t, "a b", sheetName("a/b"))
	long := "this topic name is far longer than thirty-one characters"
	assert.Len(t, []rune(sheetName(long)), 31)
}
