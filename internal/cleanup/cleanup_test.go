package cleanup

import (
	"errors"
	"strings"
	"testing"
)

func TestRunAll_ReverseOrderAndOnce(t *testing.T) {
	var order []string
	Register("first", func() error { order = append(order, "first"); return nil })
	Register("nil", nil)
	Register("second", func() error { order = append(order, "second"); return nil })

	if err := RunAll(); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if strings.Join(order, ",") != "second,first" {
		t.Fatalf("order = %v", order)
	}
	if err := RunAll(); err != nil {
		t.Fatalf("second RunAll: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("hooks ran twice: %v", order)
	}
}

func TestRunAll_JoinsErrors(t *testing.T) {
	errLog := errors.New("close failed")
	Register("log file", func() error { return errLog })
	Register("ok", func() error { return nil })

	err := RunAll()
	if !errors.Is(err, errLog) {
		t.Fatalf("err = %v, want wrapped close error", err)
	}
	if !strings.Contains(err.Error(), "log file") {
		t.Fatalf("error should name the hook: %v", err)
	}
}
