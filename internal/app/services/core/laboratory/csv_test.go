package laboratory

import (
	"testing"

	"medreport-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	data := `test_name,value
Hemoglobin,11.5
glucose, 110
White Cells,abc
sodium
Potassium,3.8
glucose,120
`
	entries, err := ParseCSV(data)
	require.NoError(t, err)

	assert.Equal(t, models.LabEntries{
		{Name: "hemoglobin", Value: 11.5},
		{Name: "glucose", Value: 120.0},
		{Name: "potassium", Value: 3.8},
	}, entries)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	entries, err := ParseCSV("test_name,value\n")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseCSV_Malformed(t *testing.T) {
	_, err := ParseCSV("test_name,value\n\"glucose,95\n")
	assert.Error(t, err)
}
