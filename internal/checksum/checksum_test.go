package checksum

import "testing"

func TestSum_Stable(t *testing.T) {
	a, b := Sum([]byte("[]")), Sum([]byte("[]"))
	if a != b || len(a) != 64 {
		t.Errorf("Sum not stable or wrong length: %q %q", a, b)
	}
	if Sum([]byte("[ ]")) == a {
		t.Error("different input produced same sum")
	}
}

func TestETag(t *testing.T) {
	sum := Sum([]byte("x"))
	if got := ETag(sum); got != `"`+sum[:16]+`"` {
		t.Errorf("ETag = %s", got)
	}
	if got := ETag("abc"); got != `"abc"` {
		t.Errorf("ETag(short) = %s", got)
	}
}
