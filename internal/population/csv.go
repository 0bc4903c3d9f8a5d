// Package population ingests the starting population, either from a CSV
// file or by auto-generating synthetic records.
package population

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Record is one population CSV row (spec §6): ind, age, working,
// pub_transport. Boolean parsing is exact-spelling "True"/"False" only —
// any other value is a row-level error, matching original_source's
// bool_from_string.
type Record struct {
	Ind         uint32
	Age         string
	Working     bool
	PubTransport bool
}

func parseExactBool(field, value string, row int) (bool, error) {
	switch value {
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return false, fmt.Errorf("population: row %d: %s must be exactly \"True\" or \"False\", got %q", row, field, value)
	}
}

// FromCSV reads columns ind,age,working,pub_transport from path.
func FromCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("population: open %s: %w", path, err)
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("population: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, required := range []string{"ind", "age", "working", "pub_transport"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("population: missing required column %q", required)
		}
	}

	var records []Record
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("population: row %d: %w", rowNum, err)
		}
		rowNum++

		ind, err := strconv.ParseUint(row[col["ind"]], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("population: row %d: invalid ind %q: %w", rowNum, row[col["ind"]], err)
		}
		working, err := parseExactBool("working", row[col["working"]], rowNum)
		if err != nil {
			return nil, err
		}
		pubTransport, err := parseExactBool("pub_transport", row[col["pub_transport"]], rowNum)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			Ind:          uint32(ind),
			Age:          row[col["age"]],
			Working:      working,
			PubTransport: pubTransport,
		})
	}
	return records, nil
}
