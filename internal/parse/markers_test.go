package parse

import (
	"errors"
	"testing"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		names []string
		want  []string
	}{
		{
			name:  "unquoted and single quoted",
			in:    "estimate=123.5 unit='kg CO2e'",
			names: []string{"estimate", "unit"},
			want:  []string{"123.5", "kg CO2e"},
		},
		{
			name:  "double quotes and extra whitespace",
			in:    `  estimate=  42   unit= "t CO2e"  `,
			names: []string{"estimate", "unit"},
			want:  []string{"42", "t CO2e"},
		},
		{
			name:  "quoted value containing later marker",
			in:    "pros='Faster transit' cons='saves fuel estimate=unknown' estimate=900.0 unit='kg CO2e'",
			names: []string{"pros", "cons", "estimate", "unit"},
			want:  []string{"Faster transit", "saves fuel estimate=unknown", "900.0", "kg CO2e"},
		},
		{
			name:  "marker embedded in a longer word is ignored",
			in:    "estimate=1 subunit=x unit=kg",
			names: []string{"estimate", "unit"},
			want:  []string{"1 subunit=x", "kg"},
		},
		{
			name:  "unterminated quote is trimmed",
			in:    "estimate=7 unit='kg CO2e",
			names: []string{"estimate", "unit"},
			want:  []string{"7", "kg CO2e"},
		},
		{
			name:  "stray trailing quote is trimmed",
			in:    `estimate=7" unit=kg CO2e'`,
			names: []string{"estimate", "unit"},
			want:  []string{"7", "kg CO2e"},
		},
		{
			name:  "marker after non-breaking space",
			in:    "estimate=1\u00a0unit=t",
			names: []string{"estimate", "unit"},
			want:  []string{"1", "t"},
		},
		{
			name:  "empty final value",
			in:    "estimate=5 unit=",
			names: []string{"estimate", "unit"},
			want:  []string{"5", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fields(tt.in, tt.names...)
			if err != nil {
				t.Fatalf("Fields error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("field %s = %q, want %q", tt.names[i], got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFields_MissingMarker(t *testing.T) {
	_, err := Fields("estimate=123.5 kg CO2e", "estimate", "unit")

	var me *MarkerError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want *MarkerError", err)
	}
	if me.Field != "unit" {
		t.Fatalf("field = %q, want %q", me.Field, "unit")
	}
}

func TestFields_OutOfOrder(t *testing.T) {
	_, err := Fields("unit='kg CO2e' estimate=5", "estimate", "unit")
	if !errors.Is(err, ErrFieldOrder) {
		t.Fatalf("err = %v, want ErrFieldOrder", err)
	}
}

func TestFields_MarkerGluedToNonASCII(t *testing.T) {
	_, err := Fields("estimate=1 voilàunit=t", "estimate", "unit")

	var me *MarkerError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want *MarkerError", err)
	}
	if me.Field != "unit" {
		t.Fatalf("field = %q, want %q", me.Field, "unit")
	}
}
