package sentiment

import "testing"

func TestParseLabel(t *testing.T) {
	cases := []struct {
		in      string
		want    Label
		wantErr bool
	}{
		{"Positive", Positive, false},
		{"NEGATIVE", Negative, false},
		{" positive.\n", Positive, false},
		{`"negative"`, Negative, false},
		{"pos", Positive, false},
		{"LABEL_1", Positive, false},
		{"label_0", Negative, false},
		{"1", Positive, false},
		{"2", Negative, true},
		{"neutral", Negative, true},
		{"", Negative, true},
	}
	for _, tc := range cases {
		got, err := ParseLabel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLabel(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("ParseLabel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLabelFromIndex(t *testing.T) {
	for i, want := range []Label{Negative, Positive} {
		got, err := LabelFromIndex(i)
		if err != nil || got != want {
			t.Fatalf("LabelFromIndex(%d) = %v, %v", i, got, err)
		}
	}
	if _, err := LabelFromIndex(-1); err == nil {
		t.Fatal("expected error for negative index")
	}
}

func TestLabelStringAndIcon(t *testing.T) {
	if Positive.String() != "Positive" || Negative.String() != "Negative" {
		t.Fatal("unexpected label names")
	}
	if Positive.Icon() != "😊 Positive" || Negative.Icon() != "😞 Negative" {
		t.Fatal("unexpected label icons")
	}
	if Label(5).String() != "Label(5)" {
		t.Fatalf("got %q", Label(5).String())
	}
}

func TestLabelTextRoundTrip(t *testing.T) {
	var l Label
	if err := l.UnmarshalText([]byte("Positive")); err != nil || l != Positive {
		t.Fatalf("UnmarshalText: %v, %v", l, err)
	}
	if _, err := Label(3).MarshalText(); err == nil {
		t.Fatal("expected error for invalid label")
	}
}
