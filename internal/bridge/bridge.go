package bridge

import (
	"fmt"
	"log"
	"math/rand"

	"ar-quiz-service/internal/domain"
)

// Renderer is the AR engine boundary: camera tracking plus clickable primitives.
type Renderer interface {
	CameraPose() domain.Pose
	PlaceObject(spec domain.ObjectSpec) (domain.Handle, error)
	RemoveObject(handle domain.Handle)
}

// AnchorRenderer is implemented by renderers that draw the anchor frame themselves.
type AnchorRenderer interface {
	PlaceAnchor(position domain.Vec3)
	ReleaseAnchor()
}

// Options tune placement.
type Options struct {
	PlacementRadius float64
	LineSpacing     float64
	MarkerHeight    float64
	AnchorOffset    domain.Vec3
	SphereRadius    float64
	BoxSize         float64
}

// DefaultOptions returns the standard scene proportions.
func DefaultOptions() Options {
	return Options{
		PlacementRadius: 1.5,
		LineSpacing:     0.8,
		MarkerHeight:    0.4,
		AnchorOffset:    domain.Vec3{Z: -2},
		SphereRadius:    0.3,
		BoxSize:         0.6,
	}
}

// Colors is the per-index object palette.
var Colors = []string{"#FF5733", "#33FF57", "#3357FF", "#F3FF33", "#FF33F3", "#33FFF3"}

// PlacedObject is one answer object currently in the scene.
type PlacedObject struct {
	Handle domain.Handle
	Spec   domain.ObjectSpec
}

// Bridge turns question payloads into placed objects and routes taps back as selections.
// Not safe for concurrent use.
type Bridge struct {
	renderer      Renderer
	opts          Options
	rnd           *rand.Rand
	mode          domain.ARMode
	objects       []PlacedObject
	anchored      bool
	anchor        domain.Vec3
	anchorYaw     float64
	markerVisible bool
	debug         bool
	onSelect      func(domain.AnswerSelection)
}

func New(renderer Renderer, opts Options, rnd *rand.Rand) *Bridge {
	return &Bridge{
		renderer: renderer,
		opts:     opts,
		rnd:      rnd,
		mode:     domain.ARModeLocation,
	}
}

// SetMode switches tracking strategy, clearing the scene and releasing any anchor.
func (b *Bridge) SetMode(mode domain.ARMode) {
	b.Clear()
	b.releaseAnchor()
	b.mode = mode
}

func (b *Bridge) Mode() domain.ARMode { return b.mode }

// OnSelect sets the single receiver of tap selections.
func (b *Bridge) OnSelect(fn func(domain.AnswerSelection)) {
	b.onSelect = fn
}

// Objects returns the placed objects in placement order.
func (b *Bridge) Objects() []PlacedObject {
	return append([]PlacedObject(nil), b.objects...)
}

// CreateQuizObjects clears the scene and places one object per choice.
func (b *Bridge) CreateQuizObjects(payload domain.QuestionPayload) error {
	b.Clear()
	if payload.CorrectAnswer < 0 || payload.CorrectAnswer >= len(payload.Choices) {
		return fmt.Errorf("correct answer %d out of range for %d choices", payload.CorrectAnswer, len(payload.Choices))
	}
	var specs []domain.ObjectSpec
	if b.mode == domain.ARModeMarker {
		specs = b.markerSpecs(payload)
	} else {
		specs = b.locationSpecs(payload)
	}
	for _, spec := range specs {
		handle, err := b.renderer.PlaceObject(spec)
		if err != nil {
			return fmt.Errorf("place object %d: %w", spec.Tags.Index, err)
		}
		b.objects = append(b.objects, PlacedObject{Handle: handle, Spec: spec})
	}
	log.Printf("created %d quiz objects in %s mode", len(specs), b.mode)
	return nil
}

type choice struct {
	text    string
	correct bool
}

// markerSpecs shuffles the choices and lays them out on a line over the marker.
// The correct choice is a sphere, the others boxes.
func (b *Bridge) markerSpecs(payload domain.QuestionPayload) []domain.ObjectSpec {
	choices := make([]choice, len(payload.Choices))
	for i, text := range payload.Choices {
		choices[i] = choice{text: text, correct: i == payload.CorrectAnswer}
	}
	b.rnd.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })

	positions := LinePositions(len(choices), b.opts.LineSpacing)
	specs := make([]domain.ObjectSpec, len(choices))
	for i, c := range choices {
		spec := domain.ObjectSpec{
			Shape:    domain.ShapeBox,
			Color:    colorFor(i),
			Position: domain.Vec3{X: positions[i].X, Y: b.opts.MarkerHeight, Z: positions[i].Z},
			Frame:    domain.FrameMarker,
			Scale:    b.opts.BoxSize,
			Tags:     domain.ObjectTags{IsCorrect: c.correct, Index: i, Label: c.text},
		}
		if c.correct {
			spec.Shape = domain.ShapeSphere
			spec.Scale = b.opts.SphereRadius
		}
		specs[i] = spec
	}
	return specs
}

// locationSpecs rings the choices around the camera, or around the anchor when one is set.
func (b *Bridge) locationSpecs(payload domain.QuestionPayload) []domain.ObjectSpec {
	var positions []domain.Vec3
	frame := domain.FrameWorld
	if b.anchored {
		positions = RadialPositions(len(payload.Choices), b.opts.PlacementRadius, domain.Vec3{}, b.anchorYaw)
		frame = domain.FrameAnchor
	} else {
		pose := b.renderer.CameraPose()
		positions = RadialPositions(len(payload.Choices), b.opts.PlacementRadius, pose.Position, pose.Rotation.Y)
	}
	specs := make([]domain.ObjectSpec, len(payload.Choices))
	for i, text := range payload.Choices {
		specs[i] = domain.ObjectSpec{
			Shape:    domain.ShapeSphere,
			Color:    colorFor(i),
			Position: positions[i],
			Frame:    frame,
			Scale:    b.opts.SphereRadius,
			Tags:     domain.ObjectTags{IsCorrect: i == payload.CorrectAnswer, Index: i, Label: text},
		}
	}
	return specs
}

// Clear removes every placed object.
func (b *Bridge) Clear() {
	for _, obj := range b.objects {
		b.renderer.RemoveObject(obj.Handle)
	}
	b.objects = nil
}

// Tap forwards the tapped object's tags to the selection receiver verbatim.
func (b *Bridge) Tap(handle domain.Handle) error {
	for _, obj := range b.objects {
		if obj.Handle != handle {
			continue
		}
		if b.onSelect != nil {
			b.onSelect(domain.AnswerSelection{IsCorrect: obj.Spec.Tags.IsCorrect, Index: obj.Spec.Tags.Index})
		}
		return nil
	}
	log.Printf("warn: tap on unknown object %s", handle)
	return fmt.Errorf("%w: %s", domain.ErrObjectNotFound, handle)
}

// SetAnchor fixes the anchor in front of the current camera pose and re-expresses
// world-frame objects relative to it, keeping their absolute positions.
func (b *Bridge) SetAnchor() domain.Vec3 {
	pose := b.renderer.CameraPose()
	b.anchor = AnchorPosition(pose, b.opts.AnchorOffset)
	b.anchorYaw = pose.Rotation.Y
	b.anchored = true
	if ar, ok := b.renderer.(AnchorRenderer); ok {
		ar.PlaceAnchor(b.anchor)
	}
	log.Printf("anchor set at (%.2f, %.2f, %.2f)", b.anchor.X, b.anchor.Y, b.anchor.Z)

	b.reframe(domain.FrameWorld, domain.FrameAnchor, func(p domain.Vec3) domain.Vec3 { return p.Sub(b.anchor) })
	return b.anchor
}

// ToggleAnchor sets the anchor, or releases it back to world coordinates. It reports the new state.
func (b *Bridge) ToggleAnchor() bool {
	if !b.anchored {
		b.SetAnchor()
		return true
	}
	b.reframe(domain.FrameAnchor, domain.FrameWorld, func(p domain.Vec3) domain.Vec3 { return p.Add(b.anchor) })
	b.releaseAnchor()
	log.Printf("anchor mode disabled")
	return false
}

func (b *Bridge) releaseAnchor() {
	if !b.anchored {
		return
	}
	b.anchored = false
	if ar, ok := b.renderer.(AnchorRenderer); ok {
		ar.ReleaseAnchor()
	}
}

// reframe re-places every object in frame from into frame to with its position mapped by convert.
func (b *Bridge) reframe(from, to domain.Frame, convert func(domain.Vec3) domain.Vec3) {
	for i, obj := range b.objects {
		if obj.Spec.Frame != from {
			continue
		}
		spec := obj.Spec
		spec.Frame = to
		spec.Position = convert(spec.Position)

		b.renderer.RemoveObject(obj.Handle)
		handle, err := b.renderer.PlaceObject(spec)
		if err != nil {
			log.Printf("warn: re-place object %d: %v", spec.Tags.Index, err)
			continue
		}
		b.objects[i] = PlacedObject{Handle: handle, Spec: spec}
	}
}

// Anchored reports whether the anchor is active, and where.
func (b *Bridge) Anchored() (domain.Vec3, bool) {
	return b.anchor, b.anchored
}

// MarkerFound and MarkerLost record marker tracking signals.
func (b *Bridge) MarkerFound() {
	b.markerVisible = true
	log.Printf("marker found")
}

func (b *Bridge) MarkerLost() {
	b.markerVisible = false
	log.Printf("marker lost")
}

func (b *Bridge) MarkerVisible() bool { return b.markerVisible }

// ToggleDebug flips the debug overlay flag and returns it.
func (b *Bridge) ToggleDebug() bool {
	b.debug = !b.debug
	return b.debug
}

func colorFor(index int) string {
	return Colors[index%len(Colors)]
}
