package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDigestText(t *testing.T) {
	text := `LIBER PRIMUS
Dig.1.1.0. De iustitia et iure.
Dig.1.1.1pr. Iuri operam daturum prius nosse oportet.
Dig.1.1.1.1 Cuius merito quis nos sacerdotes appellet.
Dig.1.1.2`

	entries := ParseDigestText(text)
	require.Len(t, entries, 3)

	assert.Equal(t, "Dig.1.1.0.", entries[0].Citation)
	assert.Equal(t, "De iustitia et iure.", entries[0].SourceText)
	assert.Equal(t, "Dig.1.1.1", entries[1].Citation)
	assert.Equal(t, "pr. Iuri operam daturum prius nosse oportet.", entries[1].SourceText)
	assert.Equal(t, "Dig.1.1.1.1", entries[2].Citation)
	assert.Empty(t, entries[2].TranslatedText)
}

func TestParseDigestText_NoMarkers(t *testing.T) {
	assert.Empty(t, ParseDigestText("sin marcadores"))
	assert.Empty(t, ParseDigestText(""))
}

func TestExtractHTMLText(t *testing.T) {
	text, err := ExtractHTMLText(strings.NewReader(`<html><head><style>p{}</style></head>
		<body><h1>Digesta</h1><div><p>uno</p><noscript>nada</noscript><p> dos </p></div></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Digesta\nuno\ndos\n", text)
}
