package crypto

import "testing"

func TestDeriveIdentPathIsFullyHardened(t *testing.T) {
	path := DeriveIdentPath(0, "https://example.com")
	for i, p := range path {
		if p&0x80000000 == 0 {
			t.Fatalf("path element %d (%#x) is not hardened", i, p)
		}
	}
	if path[0] != IdentPathRoot {
		t.Fatalf("expected root element %#x, got %#x", IdentPathRoot, path[0])
	}
}

func TestDeriveIdentPathVariesWithURIAndIndex(t *testing.T) {
	a := DeriveIdentPath(0, "https://a.example")
	b := DeriveIdentPath(0, "https://b.example")
	c := DeriveIdentPath(1, "https://a.example")

	if a == b {
		t.Fatalf("different URIs must derive different paths")
	}
	if a == c {
		t.Fatalf("different indices must derive different paths")
	}
}

func TestDeriveIdentPathIsDeterministic(t *testing.T) {
	a := DeriveIdentPath(5, "https://example.com/login")
	b := DeriveIdentPath(5, "https://example.com/login")
	if a != b {
		t.Fatalf("identical inputs must derive identical paths")
	}
}
