package drop

import "context"

// KindFile is the only item kind considered for traversal.
const KindFile = "file"

// Item is one dragged entity as supplied by the host.
type Item interface {
	Kind() string
}

// HandleGetter is implemented by items exposing the handle capability.
type HandleGetter interface {
	Handle(ctx context.Context) (Handle, error)
}

// EntryGetter is implemented by items exposing the legacy entry capability.
// It is preferred over WebkitEntryGetter.
type EntryGetter interface {
	Entry() Entry
}

// WebkitEntryGetter is the vendor-prefixed accessor for the legacy entry
// capability.
type WebkitEntryGetter interface {
	WebkitEntry() Entry
}

// Capability is the traversal capability an item exposes.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityHandle
	CapabilityEntry
)

func (c Capability) String() string {
	switch c {
	case CapabilityHandle:
		return "handle"
	case CapabilityEntry:
		return "entry"
	default:
		return "none"
	}
}

// Classify reports which capability item exposes. Items of any kind other
// than KindFile expose none.
func Classify(item Item) Capability {
	if item == nil || item.Kind() != KindFile {
		return CapabilityNone
	}
	if _, ok := item.(HandleGetter); ok {
		return CapabilityHandle
	}
	switch item.(type) {
	case EntryGetter, WebkitEntryGetter:
		return CapabilityEntry
	}
	return CapabilityNone
}

// Pathway is the capability committed to for a whole Collect call.
type Pathway int

const (
	PathwayEntry Pathway = iota
	PathwayHandle
)

func (p Pathway) String() string {
	if p == PathwayHandle {
		return "handle"
	}
	return "entry"
}

// Negotiate picks the pathway for items: the handle pathway when any item
// exposes the handle capability, the entry pathway otherwise.
func Negotiate(items []Item) Pathway {
	for _, item := range items {
		if Classify(item) == CapabilityHandle {
			return PathwayHandle
		}
	}
	return PathwayEntry
}

// entryOf returns the legacy entry of item, or nil when it has none.
func entryOf(item Item) Entry {
	if g, ok := item.(EntryGetter); ok {
		return g.Entry()
	}
	if g, ok := item.(WebkitEntryGetter); ok {
		return g.WebkitEntry()
	}
	return nil
}
