package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// NodeKind discriminates the values a Node can hold.
type NodeKind int

const (
	// NodeNull is an explicit JSON null or a missing value.
	NodeNull NodeKind = iota

	// NodeObject is a keyed collection that keeps document key order.
	NodeObject

	// NodeArray is an ordered list of nodes.
	NodeArray

	// NodeString is a string scalar.
	NodeString

	// NodeNumber is a numeric scalar kept as its literal text.
	NodeNumber

	// NodeBool is a boolean scalar.
	NodeBool
)

// String returns the string representation.
func (k NodeKind) String() string {
	switch k {
	case NodeNull:
		return "null"
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeString:
		return "string"
	case NodeNumber:
		return "number"
	case NodeBool:
		return "bool"
	default:
		return unknownDescription
	}
}

const unknownDescription = "Unknown"

// Node is a read-only view over one value of an entity document tree.
// All accessors are safe to call on a nil *Node and report absence
// instead of panicking.
type Node struct {
	kind   NodeKind
	keys   []string
	fields map[string]*Node
	items  []*Node
	scalar string
}

// Null returns a null node.
func Null() *Node {
	return &Node{kind: NodeNull}
}

// NewObject returns an empty object node.
func NewObject() *Node {
	return &Node{kind: NodeObject, fields: make(map[string]*Node)}
}

// NewArray returns an array node holding items in order.
func NewArray(items ...*Node) *Node {
	return &Node{kind: NodeArray, items: items}
}

// NewString returns a string node.
func NewString(s string) *Node {
	return &Node{kind: NodeString, scalar: s}
}

// NewNumber returns a number node from its literal text.
func NewNumber(literal string) *Node {
	return &Node{kind: NodeNumber, scalar: literal}
}

// NewBool returns a boolean node.
func NewBool(b bool) *Node {
	return &Node{kind: NodeBool, scalar: strconv.FormatBool(b)}
}

// Set adds or replaces a property on an object node and returns the node.
// A replaced key keeps its original position. Set is a no-op on non-objects.
func (n *Node) Set(key string, value *Node) *Node {
	if n == nil || n.kind != NodeObject {
		return n
	}
	if value == nil {
		value = Null()
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = value
	return n
}

// Append adds items to an array node and returns the node.
func (n *Node) Append(items ...*Node) *Node {
	if n == nil || n.kind != NodeArray {
		return n
	}
	n.items = append(n.items, items...)
	return n
}

// Kind returns the node kind. A nil node is NodeNull.
func (n *Node) Kind() NodeKind {
	if n == nil {
		return NodeNull
	}
	return n.kind
}

// IsNull returns true for nil and null nodes.
func (n *Node) IsNull() bool {
	return n.Kind() == NodeNull
}

// Get returns the raw property value of an object node, null included.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != NodeObject {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Keys returns the property names of an object node in document order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != NodeObject {
		return nil
	}
	return n.keys
}

// Items returns the elements of an array node.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != NodeArray {
		return nil
	}
	return n.items
}

// Len returns the number of properties or items.
func (n *Node) Len() int {
	switch n.Kind() {
	case NodeObject:
		return len(n.keys)
	case NodeArray:
		return len(n.items)
	default:
		return 0
	}
}

// Text returns the scalar value as a string.
// Numbers keep their literal form and booleans render as true/false.
func (n *Node) Text() (string, bool) {
	switch n.Kind() {
	case NodeString, NodeNumber, NodeBool:
		return n.scalar, true
	default:
		return "", false
	}
}

// ParseNode decodes a JSON document into a node tree.
func ParseNode(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeNode(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding document: %v", ErrInvalidInput, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidInput)
	}

	return root, nil
}

func decodeNode(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				child, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				child, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return NewString(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// MarshalJSON encodes the node back to JSON, keeping object key order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind() {
	case NodeNull:
		buf.WriteString("null")
	case NodeBool, NodeNumber:
		buf.WriteString(n.scalar)
	case NodeString:
		b, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case NodeArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case NodeObject:
		buf.WriteByte('{')
		for i, key := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := n.fields[key].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// UnmarshalJSON decodes JSON into the node, keeping object key order.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := ParseNode(data)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}
