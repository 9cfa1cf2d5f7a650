package shape

// Color is a hex color string.
type Color string

const (
	ColorWhite     Color = "#f0f1f3"
	ColorLightGray Color = "#c6cbd1"
	ColorGray      Color = "#788492"
	ColorBlack     Color = "#1d1d1d"
	ColorGreen     Color = "#36b24d"
	ColorCyan      Color = "#0e98ad"
	ColorBlue      Color = "#1c7ed6"
	ColorIndigo    Color = "#4263eb"
	ColorViolet    Color = "#7746f1"
	ColorRed       Color = "#ff2133"
	ColorOrange    Color = "#ff9433"
	ColorYellow    Color = "#ffc936"
)

// Palette lists the colors offered by the editor, in menu order.
var Palette = []Color{
	ColorBlack, ColorGray, ColorLightGray, ColorWhite,
	ColorRed, ColorOrange, ColorYellow, ColorGreen,
	ColorCyan, ColorBlue, ColorIndigo, ColorViolet,
}

// Size selects a stroke width preset.
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

var strokeWidths = map[Size]float64{
	SizeSmall:  2,
	SizeMedium: 4,
	SizeLarge:  8,
}

// Dash is the stroke pattern.
type Dash string

const (
	DashDraw   Dash = "draw"
	DashSolid  Dash = "solid"
	DashDashed Dash = "dashed"
	DashDotted Dash = "dotted"
)

// Style is a visual preset. Styles are shared by pointer between shapes and
// are never modified after construction; use With to derive a new one.
type Style struct {
	Color    Color
	Size     Size
	Dash     Dash
	IsFilled bool
	Scale    float64
}

// DefaultStyle is the preset new shapes start from.
var DefaultStyle = &Style{
	Color: ColorBlack,
	Size:  SizeSmall,
	Dash:  DashDraw,
	Scale: 1,
}

// StylePatch names the style fields to replace. Nil fields are kept.
type StylePatch struct {
	Color    *Color
	Size     *Size
	Dash     *Dash
	IsFilled *bool
	Scale    *float64
}

// Ref returns a pointer to v, for building patches.
func Ref[T any](v T) *T { return &v }

// With returns a new style with patch applied. The receiver is not modified.
// A nil receiver starts from DefaultStyle.
func (s *Style) With(patch StylePatch) *Style {
	if s == nil {
		s = DefaultStyle
	}
	next := *s
	if patch.Color != nil {
		next.Color = *patch.Color
	}
	if patch.Size != nil {
		next.Size = *patch.Size
	}
	if patch.Dash != nil {
		next.Dash = *patch.Dash
	}
	if patch.IsFilled != nil {
		next.IsFilled = *patch.IsFilled
	}
	if patch.Scale != nil {
		next.Scale = *patch.Scale
	}
	return &next
}

// StrokeWidth returns the stroke width in world units.
func (s *Style) StrokeWidth() float64 {
	if s == nil {
		s = DefaultStyle
	}
	w, ok := strokeWidths[s.Size]
	if !ok {
		w = strokeWidths[SizeSmall]
	}
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return w * scale
}
