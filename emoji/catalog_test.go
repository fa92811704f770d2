package emoji

import "testing"

func TestCatalogResolve(t *testing.T) {
	cat := Catalog{
		"smile":   Character("🙂"),
		"grin":    Alias("smile"),
		"happy":   Alias("grin"),
		"broken":  Alias("missing"),
		"loop_a":  Alias("loop_b"),
		"loop_b":  Alias("loop_a"),
		"rocket":  ImageURL("https://e/rocket.png"),
		"rocket2": Alias("rocket"),
	}

	cases := []struct {
		code string
		want Source
		ok   bool
	}{
		{"smile", Character("🙂"), true},
		{"grin", Character("🙂"), true},
		{"happy", Character("🙂"), true},
		{"rocket2", ImageURL("https://e/rocket.png"), true},
		{"missing", Source{}, false},
		{"broken", Source{}, false},
		{"loop_a", Source{}, false},
	}
	for _, c := range cases {
		got, ok := cat.Resolve(c.code)
		if ok != c.ok {
			t.Fatalf("%s: ok=%v want %v", c.code, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("%s: got %s want %s", c.code, got, c.want)
		}
	}
}
