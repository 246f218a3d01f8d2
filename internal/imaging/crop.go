package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Regions lists the names accepted by CropRegion.
var Regions = []string{
	"full",
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half",
	"center",
}

// RegionRect returns the rectangle of a named region inside bounds.
// "center" is the middle 50% of the image; "full" and "" are the whole image.
func RegionRect(bounds image.Rectangle, region string) (image.Rectangle, error) {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2

	var x1, y1, x2, y2 int
	switch region {
	case "", "full":
		x1, y1, x2, y2 = 0, 0, w, h
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW, qH := w/4, h/4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", region)
	}

	return image.Rect(x1, y1, x2, y2).Add(bounds.Min), nil
}

// ValidateRegion reports whether region is one of Regions.
func ValidateRegion(region string) error {
	_, err := RegionRect(image.Rect(0, 0, 1, 1), region)
	return err
}

// CropRegion returns the named region of img as a new image with its origin
// at (0,0). Regions that come out empty on tiny images are an error.
func CropRegion(img image.Image, region string) (image.Image, error) {
	rect, err := RegionRect(img.Bounds(), region)
	if err != nil {
		return nil, err
	}
	if rect.Empty() {
		return nil, fmt.Errorf("region %s of a %dx%d image is empty", region, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return imaging.Crop(img, rect), nil
}
