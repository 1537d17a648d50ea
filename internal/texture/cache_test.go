package texture

import (
	"errors"
	"image"
	"testing"
)

func TestCache(t *testing.T) {
	calls := 0
	c := NewCache(func(path string) (*image.NRGBA, error) {
		calls++
		if path == "missing.bmp" {
			return nil, errors.New("not found")
		}
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	})

	first, cached, err := c.Get("a.bmp")
	if err != nil || cached {
		t.Fatalf("Get = %v, %v; want a fresh load", cached, err)
	}
	second, cached, _ := c.Get("a.bmp")
	if !cached || second != first {
		t.Error("Second Get did not reuse the image")
	}

	for i := 0; i < 2; i++ {
		if _, _, err := c.Get("missing.bmp"); err == nil {
			t.Error("Get succeeded for a failing load")
		}
	}

	if calls != 2 {
		t.Errorf("Loader called %d times, want 2", calls)
	}
}
