package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("calibration finished")
	if got != "calibration finished" {
		t.Errorf("custom logger saw %q", got)
	}

	// nil installs a no-op, not a nil function.
	SetLogger(nil)
	got = ""
	Logf("should be dropped")
	if got != "" {
		t.Error("no-op logger forwarded a message")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf must be callable by default")
	}
}
