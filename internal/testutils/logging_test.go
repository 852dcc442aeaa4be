package testutils

import "testing"

type fakeT struct {
	errors int
}

func (f *fakeT) Errorf(format string, args ...any) { f.errors++ }

func TestFieldsToMap_WellFormed(t *testing.T) {
	ft := &fakeT{}
	m := FieldsToMap(ft, []any{"app", "chrome.exe", "seconds", int64(45)})

	if ft.errors != 0 {
		t.Fatalf("reported %d errors for well-formed fields", ft.errors)
	}
	if m["app"] != "chrome.exe" || m["seconds"] != int64(45) {
		t.Errorf("FieldsToMap() = %v", m)
	}
}

func TestFieldsToMap_Malformed(t *testing.T) {
	ft := &fakeT{}
	m := FieldsToMap(ft, []any{"app", "chrome.exe", "dangling"})

	if ft.errors != 1 {
		t.Errorf("reported %d errors, want 1", ft.errors)
	}
	if len(m) != 1 {
		t.Errorf("FieldsToMap() kept %d entries, want 1", len(m))
	}

	ft = &fakeT{}
	FieldsToMap(ft, []any{7, "value"})
	if ft.errors != 1 {
		t.Errorf("non-string key reported %d errors, want 1", ft.errors)
	}
}

func TestRecordingLogger(t *testing.T) {
	logger := NewRecordingLogger()

	logger.Info("sample recorded", "identifier", "firefox.exe:title")
	logger.Error("flush failed", "error", "locked")
	logger.Error("flush failed", "error", "locked")

	if got := len(logger.Entries()); got != 3 {
		t.Fatalf("Entries() len = %d, want 3", got)
	}
	if logger.CountLevel("ERROR") != 2 {
		t.Errorf("CountLevel(ERROR) = %d, want 2", logger.CountLevel("ERROR"))
	}
	if logger.Entries()[0].Message != "sample recorded" {
		t.Errorf("first entry message = %q", logger.Entries()[0].Message)
	}
}
