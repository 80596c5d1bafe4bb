package utils

import "testing"

func TestStripDiacritics(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Inundación", "Inundacion"},
		{"Elevación", "Elevacion"},
		{"Pendiente", "Pendiente"},
		{"ñandú", "nandu"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripDiacritics(c.in); got != c.want {
			t.Errorf("StripDiacritics(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeStem(t *testing.T) {
	cases := []struct{ in, want string }{
		{" Escenario TR 100 ", "Escenario_TR_100"},
		{"dem área", "dem_area"},
		{"simple", "simple"},
		{"a\tb  c", "a_b_c"},
	}
	for _, c := range cases {
		if got := SanitizeStem(c.in); got != c.want {
			t.Errorf("SanitizeStem(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGetFilenameWithoutExt(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/data/Escenario TR100.tif", "Escenario TR100"},
		{"dem.tif", "dem"},
		{"noext", "noext"},
		{"/a/b.c/d.tiff", "d"},
	}
	for _, c := range cases {
		if got := GetFilenameWithoutExt(c.in); got != c.want {
			t.Errorf("GetFilenameWithoutExt(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
