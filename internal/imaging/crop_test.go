package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestRegionRect(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)
	tests := []struct {
		region string
		want   image.Rectangle
	}{
		{"", image.Rect(0, 0, 100, 80)},
		{"full", image.Rect(0, 0, 100, 80)},
		{"top-left", image.Rect(0, 0, 50, 40)},
		{"top-right", image.Rect(50, 0, 100, 40)},
		{"bottom-left", image.Rect(0, 40, 50, 80)},
		{"bottom-right", image.Rect(50, 40, 100, 80)},
		{"top-half", image.Rect(0, 0, 100, 40)},
		{"bottom-half", image.Rect(0, 40, 100, 80)},
		{"left-half", image.Rect(0, 0, 50, 80)},
		{"right-half", image.Rect(50, 0, 100, 80)},
		{"center", image.Rect(25, 20, 75, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			got, err := RegionRect(bounds, tt.region)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := RegionRect(bounds, "middle-ish"); err == nil {
		t.Error("expected error for unknown region")
	}
}

func TestRegionRect_OffsetBounds(t *testing.T) {
	got, err := RegionRect(image.Rect(10, 10, 30, 30), "bottom-right")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := image.Rect(20, 20, 30, 30); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCropRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		region string
		want   color.RGBA
	}{
		{"top-left", color.RGBA{255, 0, 0, 255}},
		{"top-right", color.RGBA{0, 255, 0, 255}},
		{"bottom-left", color.RGBA{0, 0, 255, 255}},
		{"bottom-right", color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			cropped, err := CropRegion(img, tt.region)
			if err != nil {
				t.Fatalf("CropRegion failed: %v", err)
			}
			b := cropped.Bounds()
			if b.Min != (image.Point{}) || b.Dx() != 50 || b.Dy() != 50 {
				t.Errorf("bounds: got %v, want (0,0)-(50,50)", b)
			}
			r, g, bl, _ := cropped.At(25, 25).RGBA()
			if uint8(r>>8) != tt.want.R || uint8(g>>8) != tt.want.G || uint8(bl>>8) != tt.want.B {
				t.Errorf("color: got (%d,%d,%d), want %v", r>>8, g>>8, bl>>8, tt.want)
			}
		})
	}
}

func TestCropRegion_Errors(t *testing.T) {
	if _, err := CropRegion(createInMemoryImage(10, 10, color.White), "nowhere"); err == nil {
		t.Error("expected error for unknown region")
	}
	if _, err := CropRegion(createInMemoryImage(1, 1, color.White), "top-left"); err == nil {
		t.Error("expected error for empty region")
	}
}
