package snapshot

import (
	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// ErrNoBounds indicates a node has no Bounds attribute to highlight.
var ErrNoBounds = uinode.ErrAttributeNotFound

// NodeBounds reads a node's Bounds attribute as a Rect, for callers that
// want to highlight (or otherwise geometrically reason about) a
// query result without re-deriving the XDM alias rules themselves.
func NodeBounds(n uinode.Node) (uivalue.Rect, error) {
	attrs, err := uinode.ExpandAttributes(n)
	if err != nil {
		return uivalue.Rect{}, err
	}
	for _, a := range attrs {
		if a.QName.Local == "Bounds" {
			if r, ok := a.Value.AsRect(); ok {
				return r, nil
			}
		}
	}
	return uivalue.Rect{}, ErrNoBounds
}

// HighlightNodes draws a highlight overlay over every node's Bounds via
// svc, skipping nodes with no Bounds attribute (spec.md §4.8: "requests
// screen highlight overlays").
func HighlightNodes(svc capability.HighlightService, nodes []uinode.Node, durationMillis int) error {
	rects := make([]uivalue.Rect, 0, len(nodes))
	for _, n := range nodes {
		r, err := NodeBounds(n)
		if err != nil {
			continue
		}
		rects = append(rects, r)
	}
	if len(rects) == 0 {
		return nil
	}
	return svc.Highlight(rects, durationMillis)
}
