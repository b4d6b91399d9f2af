package yata

// ContainerType names the kinds of sequence/value container this core
// can back. Map and List share Tracker's machinery at the same level
// of abstraction as Text; only Text is exercised by this package's own
// tests, the others are named so the contract lines up with
// original_source's container.rs.
type ContainerType int

const (
	ContainerText ContainerType = iota
	ContainerMap
	ContainerList
)

func (ct ContainerType) String() string {
	switch ct {
	case ContainerText:
		return "Text"
	case ContainerMap:
		return "Map"
	case ContainerList:
		return "List"
	default:
		return "Unknown"
	}
}

// ContainerID disambiguates containers within a document: a Root
// container is named and singleton per document; a Normal container is
// identified by the ID of the op that created it. Grounded on
// original_source/crates/loro-core/src/container.rs's ContainerID enum
// (Root{name, type} / Normal{id, type}).
type ContainerID struct {
	IsRoot bool
	Name   string // set when IsRoot
	ID     ID     // set when !IsRoot
	Type   ContainerType
}

// RootContainerID builds a Root container identifier.
func RootContainerID(name string, t ContainerType) ContainerID {
	return ContainerID{IsRoot: true, Name: name, Type: t}
}

// NormalContainerID builds a Normal container identifier from its
// creating op's id.
func NormalContainerID(id ID, t ContainerType) ContainerID {
	return ContainerID{IsRoot: false, ID: id, Type: t}
}

func (c ContainerID) String() string {
	if c.IsRoot {
		return c.Type.String() + ":" + c.Name
	}
	return c.Type.String() + ":" + c.ID.String()
}

// TrackedContainer is the seam this core exposes to a larger document
// layer (spec.md §6, shown only to fix the contract — the document
// layer itself is out of scope). A Text/List container backed by this
// package's Tracker satisfies it directly; see (*Tracker) below.
type TrackedContainer interface {
	ContainerID() ContainerID
	Type() ContainerType

	CanIntegrate(op YSpan) bool
	Integrate(op YSpan) error
	TrackRetreat(spans IDSpanVector)
	TrackForward(spans IDSpanVector)
	TrackerCheckout(target VersionVector)
	ApplyTrackedEffectsFrom(fromVV VersionVector, effectSpans IDSpanVector) []Effect
}

// TextContainer adapts a Tracker to TrackedContainer for a Text
// sequence — the only container kind this package materialises end to
// end; Map/List would follow the same shape over a different payload
// type satisfying Rle, left unimplemented.
type TextContainer struct {
	id      ContainerID
	tracker *Tracker
}

// NewTextContainer wraps tracker as a Text container identified by id.
// Panics (invariant) if id.Type isn't ContainerText, since a mismatched
// type/tracker pairing would be a caller bug, not a recoverable error.
func NewTextContainer(id ContainerID, tracker *Tracker) *TextContainer {
	invariant(id.Type == ContainerText, "NewTextContainer: id.Type must be ContainerText")
	return &TextContainer{id: id, tracker: tracker}
}

func (c *TextContainer) ContainerID() ContainerID { return c.id }
func (c *TextContainer) Type() ContainerType      { return ContainerText }

func (c *TextContainer) CanIntegrate(op YSpan) bool { return c.tracker.CanIntegrate(op) }
func (c *TextContainer) Integrate(op YSpan) error   { return c.tracker.Integrate(op) }
func (c *TextContainer) TrackRetreat(spans IDSpanVector) { c.tracker.Retreat(spans) }
func (c *TextContainer) TrackForward(spans IDSpanVector) { c.tracker.Forward(spans) }
func (c *TextContainer) TrackerCheckout(target VersionVector) { c.tracker.Checkout(target) }

func (c *TextContainer) ApplyTrackedEffectsFrom(fromVV VersionVector, effectSpans IDSpanVector) []Effect {
	return c.tracker.ApplyTrackedEffectsFrom(fromVV, effectSpans)
}

// Tracker exposes the underlying tracker for callers that need direct
// access (e.g. IterVisible), beyond what TrackedContainer fixes.
func (c *TextContainer) Tracker() *Tracker { return c.tracker }
