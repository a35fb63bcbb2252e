package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFolio_Default(t *testing.T) {
	folio, err := FormatFolio(DefaultFolioTemplate, KindQuote, 2025, 100)
	require.NoError(t, err)
	assert.Equal(t, "COT-2025-100", folio)

	folio, err = FormatFolio(DefaultFolioTemplate, KindServiceOrder, 2025, 101)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-101", folio)
}

func TestFormatFolio_PaddedSequence(t *testing.T) {
	folio, err := FormatFolio("{PREFIX}-{YY}-{SEQ6}", KindQuote, 2025, 100)
	require.NoError(t, err)
	assert.Equal(t, "COT-25-000100", folio)
}

func TestFormatFolio_Invalid(t *testing.T) {
	_, err := FormatFolio("", KindQuote, 2025, 100)
	assert.Error(t, err)

	_, err = FormatFolio(DefaultFolioTemplate, "", 2025, 100)
	assert.Error(t, err)

	_, err = FormatFolio(DefaultFolioTemplate, KindQuote, 0, 100)
	assert.Error(t, err)

	_, err = FormatFolio(DefaultFolioTemplate, KindQuote, 2025, 0)
	assert.Error(t, err)

	_, err = FormatFolio("{PREFIX}-{UNKNOWN}", KindQuote, 2025, 100)
	assert.Error(t, err)
}
