package population

import (
	"strings"
	"testing"
)

func TestParseCSVExactBooleanSpelling(t *testing.T) {
	csv := "ind,age,working,pub_transport\n1,30,True,False\n2,45,False,True\n"
	records, err := parseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Working || records[0].PubTransport {
		t.Errorf("row 1: working=%v pub_transport=%v, want true/false", records[0].Working, records[0].PubTransport)
	}
}

func TestParseCSVRejectsNonExactBoolean(t *testing.T) {
	csv := "ind,age,working,pub_transport\n1,30,true,False\n"
	_, err := parseCSV(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for lowercase \"true\"")
	}
}

func TestParseCSVRequiresAllColumns(t *testing.T) {
	csv := "ind,age,working\n1,30,True\n"
	_, err := parseCSV(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for missing pub_transport column")
	}
}
