package dbtypes

import "testing"

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"silk", "hand wash, cold"}
	val, err := list.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var back StringList
	if err := back.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(back) != 2 || back[1] != "hand wash, cold" {
		t.Fatalf("round trip lost data: %v", back)
	}
}

func TestStringListScanNil(t *testing.T) {
	var list StringList
	if err := list.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}
}

func TestStringMapRoundTrip(t *testing.T) {
	m := StringMap{"size": "M", "color": "red"}
	val, err := m.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var back StringMap
	if err := back.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if back["size"] != "M" || back["color"] != "red" {
		t.Fatalf("round trip lost data: %v", back)
	}
}
