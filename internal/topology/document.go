package topology

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ekisa-team/topology/internal/mapsafe"
)

// Document is a parsed topology file.
// The decoded value is kept as-is so unknown fields survive a load/save round-trip.
type Document struct {
	value any
}

// Component is a device instance within a topology.
type Component struct {
	Netlist map[string]string `json:"netlist"`
	Type    string            `json:"type"`
	ID      string            `json:"id"`
}

// Device is the type/id projection of a component.
type Device struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Decode parses a single JSON value into a Document.
// Numbers keep their exact textual form.
func Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrParse)
	}

	if value == nil {
		return nil, fmt.Errorf("%w: document is null", ErrParse)
	}

	return &Document{value: value}, nil
}

// ID returns the document id and whether the document has a string id.
func (d *Document) ID() (string, bool) {
	return mapsafe.Lookup[string](d.object(), "id")
}

// Components returns the components of the document in order.
// Entries of the components array that are not JSON objects are dropped, so the
// result (and every device query built on it) can be shorter than the array.
// Missing fields of an object entry decode as zero values.
func (d *Document) Components() []Component {
	objs := mapsafe.Objects(d.object(), "components")

	components := make([]Component, 0, len(objs))
	for _, obj := range objs {
		c := Component{
			Type:    mapsafe.Get(obj, "type", ""),
			ID:      mapsafe.Get(obj, "id", ""),
			Netlist: map[string]string{},
		}
		for pin, node := range mapsafe.Get[map[string]any](obj, "netlist", nil) {
			if s, ok := node.(string); ok {
				c.Netlist[pin] = s
			}
		}
		components = append(components, c)
	}

	return components
}

// MarshalJSON encodes the document as it was loaded.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

func (d *Document) matches(id string) bool {
	docID, ok := d.ID()
	return ok && docID == id
}

func (d *Document) object() map[string]any {
	obj, _ := d.value.(map[string]any)
	return obj
}

// Device returns the type/id projection of the component.
func (c Component) Device() Device {
	return Device{Type: c.Type, ID: c.ID}
}

// ConnectedTo reports whether any pin of the component is attached to node.
func (c Component) ConnectedTo(node string) bool {
	for _, n := range c.Netlist {
		if n == node {
			return true
		}
	}

	return false
}
