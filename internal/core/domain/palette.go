package domain

import "image/color"

// CellClass is the state of one simulation cell.
type CellClass uint8

// Cell classes written by the wildfire simulation.
const (
	NoForest CellClass = iota
	Forest
	Burning
	Burnt
)

// Palette maps cell classes to colours.
type Palette map[CellClass]color.NRGBA

// FirePalette is the palette of the simulation viewer.
var FirePalette = Palette{
	NoForest: {R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
	Forest:   {R: 0x27, G: 0xa7, B: 0x3f, A: 0xff},
	Burning:  {R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
	Burnt:    {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
}

// Style maps a raster sample to a display colour.
type Style func(sample uint8) color.NRGBA

// ClassStyle returns a style that colours samples by cell class.
// Unknown classes are transparent.
func ClassStyle(p Palette) Style {
	return func(sample uint8) color.NRGBA {
		return p[CellClass(sample)]
	}
}
