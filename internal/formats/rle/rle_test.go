package rle

import (
	"errors"
	"testing"
)

func TestCompress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", "#"},
		{"####$$####$$####$$####$$", "4#2$4#2$4#2$4#2$"},
		{"#@$.#", "#@$.#"},
		{"--####", "2-4#"},
	}

	for _, tt := range tests {
		if got := Compress(tt.in); got != tt.want {
			t.Errorf("Compress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompressMultiPass(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"####$$####$$", "2(4#2$)"},
		{"####$$####$$####$$####$$", "4(4#2$)"},
		{"#$#$#$", "3(#$)"},
	}

	for _, tt := range tests {
		got := CompressMultiPass(tt.in)
		if got != tt.want {
			t.Errorf("CompressMultiPass(%q) = %q, want %q", tt.in, got, tt.want)
		}
		back, err := Decompress(got)
		if err != nil || back != tt.in {
			t.Errorf("Decompress(%q) = %q, %v; want %q", got, back, err, tt.in)
		}
	}
}

func TestMultiPassAlwaysDecodes(t *testing.T) {
	inputs := []string{
		"#######",
		"#  .  #",
		"#-$$--.*+##",
		"abcabcabcxabcabcabcx",
		"##$##$##$##$##$",
		"aabbaabbaabbccaabbaabbaabbcc",
	}

	for _, in := range inputs {
		for name, enc := range map[string]func(string) string{"multi": CompressMultiPass, "best": Best} {
			out := enc(in)
			back, err := Decompress(out)
			if err != nil {
				t.Fatalf("%s(%q) = %q does not decode: %v", name, in, out, err)
			}
			if back != in {
				t.Errorf("%s round trip of %q via %q gave %q", name, in, out, back)
			}
		}
	}
}

func TestDecompress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4#2$", "####$$"},
		{"#@$.#", "#@$.#"},
		{"2(4#2$)", "####$$####$$"},
		{"2(2(#$)-)", "#$#$-#$#$-"},
		{"12#", "############"},
		{"3-|#", "---|#"},
	}

	for _, tt := range tests {
		got, err := Decompress(tt.in)
		if err != nil {
			t.Errorf("Decompress(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Decompress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecompressErrors(t *testing.T) {
	for _, in := range []string{
		"(#", "#)", "3", "3)", "2(#$", "99999999(#)",
		"()", "3()#", "9223372036854775807()#",
		"4611686018427387904(##)", "2(3())",
	} {
		if _, err := Decompress(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("Decompress(%q) error = %v, want ErrSyntax", in, err)
		}
	}
}
