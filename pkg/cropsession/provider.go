package cropsession

import "thirdcoast.systems/cropframe/pkg/utils/crops"

// DimensionProvider is the slice of the host player the session reads.
type DimensionProvider interface {
	// ContainerSize is the displayed player box. May transiently be zero
	// before layout.
	ContainerSize() crops.Dimensions
	// ClientSize is the raw element box, used when ContainerSize is zero.
	ClientSize() crops.Dimensions
	// NativeSize is the media's intrinsic resolution; zero until metadata
	// has loaded.
	NativeSize() crops.Dimensions
}

// StaticProvider reports fixed dimensions.
type StaticProvider struct {
	Container crops.Dimensions
	Client    crops.Dimensions
	Native    crops.Dimensions
}

func (p StaticProvider) ContainerSize() crops.Dimensions { return p.Container }
func (p StaticProvider) ClientSize() crops.Dimensions    { return p.Client }
func (p StaticProvider) NativeSize() crops.Dimensions    { return p.Native }
