package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var document = []string{
	"ÜBERSICHT",
	"POSITION ANZAHL KURS BETRAG",
	"ISIN: US88160R1014",
	"GESAMT 2.304,30 EUR",
	"ABRECHNUNG",
	"Fremdkostenzuschlag -1,00 EUR",
	"Kapitalertragsteuer -34,57 EUR",
	"GESAMT -2.305,30 EUR",
	"BUCHUNG",
}

func TestSplitLines(t *testing.T) {
	text := "  TRADE REPUBLIC BANK   GMBH \r\n\r\n\tISIN:  US88160R1014\n   \nGESAMT 1,00 EUR"
	got := SplitLines(text)
	assert.Equal(t, []string{"TRADE REPUBLIC BANK GMBH", "ISIN: US88160R1014", "GESAMT 1,00 EUR"}, got)

	assert.Empty(t, SplitLines(""))
	assert.Empty(t, SplitLines(" \n\t\n"))
}

func TestFind(t *testing.T) {
	t.Run("value after label", func(t *testing.T) {
		got, ok := Find(document, Literal("ISIN"), 0)
		assert.True(t, ok)
		assert.Equal(t, "US88160R1014", got)
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		got, ok := Find(document, Pattern(`^GESAMT\b`), 0)
		assert.True(t, ok)
		assert.Equal(t, "2.304,30 EUR", got)
	})

	t.Run("line offset", func(t *testing.T) {
		got, ok := Find(document, Literal("POSITION ANZAHL"), 1)
		assert.True(t, ok)
		assert.Equal(t, "ISIN: US88160R1014", got)
	})

	t.Run("offset past the end", func(t *testing.T) {
		_, ok := Find(document, Literal("BUCHUNG"), 1)
		assert.False(t, ok)
	})

	t.Run("absent label", func(t *testing.T) {
		_, ok := Find(document, Literal("DIVIDENDE"), 0)
		assert.False(t, ok)
	})

	t.Run("empty literal never matches", func(t *testing.T) {
		_, ok := Find(document, Literal(""), 0)
		assert.False(t, ok)
	})
}

func TestFindAll(t *testing.T) {
	got := FindAll(document, Pattern(`^GESAMT\b`))
	if assert.Len(t, got, 2) {
		assert.Equal(t, 3, got[0].Index)
		assert.Equal(t, "-2.305,30 EUR", got[1].Value)
		assert.Equal(t, "GESAMT -2.305,30 EUR", got[1].Line)
	}
	assert.Empty(t, FindAll(document, Literal("Quellensteuer")))
}

func TestSection(t *testing.T) {
	t.Run("between anchors", func(t *testing.T) {
		got := Section(document, Pattern(`^ABRECHNUNG$`), Pattern(`^BUCHUNG$`))
		assert.Equal(t, document[5:8], got)
	})

	t.Run("missing end runs to the last line", func(t *testing.T) {
		got := Section(document, Pattern(`^ABRECHNUNG$`), Literal("www.traderepublic.com"))
		assert.Equal(t, document[5:], got)
	})

	t.Run("missing start", func(t *testing.T) {
		assert.Nil(t, Section(document, Literal("DIVIDENDE"), Pattern(`^BUCHUNG$`)))
	})
}

func TestAnchor_String(t *testing.T) {
	assert.Equal(t, "ISIN", Literal("ISIN").String())
	assert.Equal(t, `^GESAMT\b`, Pattern(`^GESAMT\b`).String())
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(document, Literal("Kapitalertragsteuer")))
	assert.False(t, Contains(nil, Literal("Kapitalertragsteuer")))
	assert.Equal(t, 4, Index(document, Pattern(`^ABRECHNUNG$`)))
	assert.Equal(t, -1, Index(document, Literal("Sparplan")))
}
