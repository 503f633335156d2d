package cropsession

import "thirdcoast.systems/cropframe/pkg/utils/crops"

// Result is reported to OnCropChange after every state-affecting change.
// All fields are nil while no aspect ratio is active.
type Result struct {
	AspectRatio *crops.AspectRatio `json:"aspectRatio"`
	Position    Position           `json:"position"`
}

// Position holds the crop rect in both coordinate spaces.
// Video is nil while the native media size is unknown.
type Position struct {
	Player *crops.Rect `json:"player"`
	Video  *crops.Rect `json:"video"`
}

// Active reports whether the result carries an aspect ratio.
func (r Result) Active() bool {
	return r.AspectRatio != nil
}
