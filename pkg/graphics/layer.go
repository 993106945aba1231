package graphics

import "golang.org/x/image/draw"

// Image is an opaque, already-decoded image handle a DrawImage command
// carries. Decoding image bytes is out of scope for this runtime; embedders
// decode (by whatever means, commonly golang.org/x/image's codecs) and hand
// back a draw.Image, which this package threads through paint output without
// ever inspecting its pixels.
type Image = draw.Image

// LayerKind enumerates the closed set of paint-output node kinds the pipeline
// owner may emit. The GPU backend that consumes these is an opaque external
// collaborator; this package guarantees only that a Layer is a plain value
// with no interior references into the element tree.
type LayerKind int

const (
	LayerContainer LayerKind = iota
	LayerPicture
	LayerTransform
	LayerOpacity
	LayerClipRect
	LayerClipRRect
	LayerClipPath
	LayerRepaintBoundary
)

// Matrix4 is a 4x4 affine transform in row-major order.
type Matrix4 [16]float64

// Identity4 returns the identity transform.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation4 returns a transform that translates by (dx, dy).
func Translation4(dx, dy float64) Matrix4 {
	m := Identity4()
	m[3] = dx
	m[7] = dy
	return m
}

// Layer is a single node in the paint-output tree. Only the fields relevant
// to Kind are populated; the rest are zero. This mirrors the tagged-union
// shape used for Element (§9's "closed, tagged variant" design note) rather
// than an open interface hierarchy, since the set of layer kinds is fixed by
// the GPU backend contract.
type Layer struct {
	Kind LayerKind

	// Container, RepaintBoundary: ordered children. Transform, Opacity,
	// ClipRect, ClipRRect, ClipPath: exactly one child (Children[0]).
	Children []*Layer

	// Picture holds the recorded drawing commands for LayerPicture.
	Picture *Picture

	// Transform holds the affine for LayerTransform.
	Transform Matrix4

	// Alpha holds the opacity in [0, 1] for LayerOpacity.
	Alpha float64

	// ClipRect holds the clip rectangle for LayerClipRect.
	ClipRect Rect

	// ClipRRect holds the clip rounded-rect for LayerClipRRect.
	ClipRRect RRect

	// ClipPath holds the clip path for LayerClipPath.
	ClipPath *Path
}

// ContainerLayer composes ordered children with no visual effect of its own.
func ContainerLayer(children ...*Layer) *Layer {
	return &Layer{Kind: LayerContainer, Children: children}
}

// EmptyContainerLayer is the layer emitted when a zero-size root paints.
func EmptyContainerLayer() *Layer {
	return &Layer{Kind: LayerContainer}
}

// PictureLayer wraps a recorded Picture.
func PictureLayer(picture *Picture) *Layer {
	return &Layer{Kind: LayerPicture, Picture: picture}
}

// TransformLayer applies an affine transform to a single child.
func TransformLayer(m Matrix4, child *Layer) *Layer {
	return &Layer{Kind: LayerTransform, Transform: m, Children: []*Layer{child}}
}

// OpacityLayer applies alpha compositing to a single child.
func OpacityLayer(alpha float64, child *Layer) *Layer {
	return &Layer{Kind: LayerOpacity, Alpha: alpha, Children: []*Layer{child}}
}

// ClipRectLayer clips a single child to an axis-aligned rect.
func ClipRectLayer(rect Rect, child *Layer) *Layer {
	return &Layer{Kind: LayerClipRect, ClipRect: rect, Children: []*Layer{child}}
}

// ClipRRectLayer clips a single child to a rounded rect.
func ClipRRectLayer(rrect RRect, child *Layer) *Layer {
	return &Layer{Kind: LayerClipRRect, ClipRRect: rrect, Children: []*Layer{child}}
}

// ClipPathLayer clips a single child to an arbitrary path.
func ClipPathLayer(path *Path, child *Layer) *Layer {
	return &Layer{Kind: LayerClipPath, ClipPath: path.clone(), Children: []*Layer{child}}
}

// RepaintBoundaryLayer marks isolation for incremental repaint: ancestors may
// reuse this subtree's previously composited content when only the boundary
// itself is marked needs-paint.
func RepaintBoundaryLayer(child *Layer) *Layer {
	return &Layer{Kind: LayerRepaintBoundary, Children: []*Layer{child}}
}

// TextStyle carries the minimal style information a draw-text command needs.
// Text shaping is out of scope: this package treats a TextRun as an opaque
// string plus style, leaving glyph layout to the GPU backend.
type TextStyle struct {
	FontSize float64
	Color    Color
}

// TextRun is the unshaped text payload of a DrawText command.
type TextRun struct {
	Text  string
	Style TextStyle
}

// DrawCommand is the closed set of drawing primitives a Picture may record.
// The unexported marker method keeps the set closed to this package, mirroring
// the donor framework's own displayOp idiom.
type DrawCommand interface {
	isDrawCommand()
}

type FillRectCommand struct {
	Rect  Rect
	Paint Paint
}

func (FillRectCommand) isDrawCommand() {}

type StrokeRectCommand struct {
	Rect  Rect
	Paint Paint
}

func (StrokeRectCommand) isDrawCommand() {}

type FillPathCommand struct {
	Path  *Path
	Paint Paint
}

func (FillPathCommand) isDrawCommand() {}

type StrokePathCommand struct {
	Path  *Path
	Paint Paint
}

func (StrokePathCommand) isDrawCommand() {}

type DrawTextCommand struct {
	Run      TextRun
	Position Offset
}

func (DrawTextCommand) isDrawCommand() {}

type DrawImageCommand struct {
	Image Image
	Dest  Rect
}

func (DrawImageCommand) isDrawCommand() {}

type DrawLineCommand struct {
	Start, End Offset
	Paint      Paint
}

func (DrawLineCommand) isDrawCommand() {}

// Picture is an immutable recorded sequence of drawing commands. It carries
// no reference back to the element or render object that produced it, per
// the external-interfaces requirement that layer-tree output be a plain
// value.
type Picture struct {
	Commands []DrawCommand
	Bounds   Size
}

// PictureRecorder records drawing commands into a Picture. Unlike the donor
// framework's PictureRecorder (which wraps a mutable Canvas interface that
// render objects draw onto imperatively), this recorder is the entire paint
// surface: Render.Paint builds its Picture purely by calling these methods
// and then Build()s a value, with no side-effecting canvas underneath.
type PictureRecorder struct {
	commands []DrawCommand
	bounds   Size
}

// NewPictureRecorder starts a recording session for a picture of the given
// bounds.
func NewPictureRecorder(bounds Size) *PictureRecorder {
	return &PictureRecorder{bounds: bounds}
}

func (r *PictureRecorder) FillRect(rect Rect, paint Paint) {
	r.commands = append(r.commands, FillRectCommand{Rect: rect, Paint: paint})
}

func (r *PictureRecorder) StrokeRect(rect Rect, paint Paint) {
	r.commands = append(r.commands, StrokeRectCommand{Rect: rect, Paint: paint})
}

func (r *PictureRecorder) FillPath(path *Path, paint Paint) {
	r.commands = append(r.commands, FillPathCommand{Path: path.clone(), Paint: paint})
}

func (r *PictureRecorder) StrokePath(path *Path, paint Paint) {
	r.commands = append(r.commands, StrokePathCommand{Path: path.clone(), Paint: paint})
}

func (r *PictureRecorder) DrawText(run TextRun, position Offset) {
	r.commands = append(r.commands, DrawTextCommand{Run: run, Position: position})
}

func (r *PictureRecorder) DrawImage(image Image, dest Rect) {
	r.commands = append(r.commands, DrawImageCommand{Image: image, Dest: dest})
}

func (r *PictureRecorder) DrawLine(start, end Offset, paint Paint) {
	r.commands = append(r.commands, DrawLineCommand{Start: start, End: end, Paint: paint})
}

// Build finalizes the recording into an immutable Picture.
func (r *PictureRecorder) Build() *Picture {
	commands := make([]DrawCommand, len(r.commands))
	copy(commands, r.commands)
	return &Picture{Commands: commands, Bounds: r.bounds}
}
