package laboratory

import (
	"encoding/csv"
	"errors"
	"io"
	"medreport-service/internal/app/models"
	"strconv"
	"strings"
)

// ParseCSV reads "test_name,value" rows after a header line. Rows whose value
// is not numeric are skipped; a repeated test keeps its first position and the
// last value.
func ParseCSV(data string) (models.LabEntries, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	entries := models.LabEntries{}
	positions := make(map[string]int)
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if header {
			header = false
			continue
		}
		if len(record) < 2 {
			continue
		}

		name := NormalizeTestName(record[0])
		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if name == "" || err != nil {
			continue
		}

		if idx, seen := positions[name]; seen {
			entries[idx].Value = value
			continue
		}
		positions[name] = len(entries)
		entries = append(entries, models.LabEntry{Name: name, Value: value})
	}

	return entries, nil
}
