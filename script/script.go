// Package script builds action trees from declarative YAML timelines.
//
// A timeline is a tree of nodes. Composite nodes (serial, parallel, list) map to
// act.Serial, act.Parallel and act.NewList; every other kind is a leaf built by the
// Factory registered under that kind:
//
//	kind: serial
//	children:
//	  - kind: wait
//	    params: {seconds: 0.5}
//	  - kind: list
//	    children:
//	      - kind: print
//	        params: {message: hello}
//	      - kind: tween
//	        lane: fx
//	        params: {from: 0, to: 1, seconds: 2}
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/act"
)

const (
	KindSerial   = "serial"
	KindParallel = "parallel"
	KindList     = "list"
)

var (
	ErrMissingKind   = errors.New("script: missing kind")
	ErrUnknownKind   = errors.New("script: unknown kind")
	ErrReservedKind  = errors.New("script: reserved kind")
	ErrDuplicateKind = errors.New("script: kind already registered")
	ErrMisplacedLane = errors.New("script: lane is only valid for children of a list")
)

// Node is one entry of a timeline.
type Node struct {
	Kind string `yaml:"kind"`

	// Lane is the lane this node goes to in its parent, which must be a list.
	Lane string `yaml:"lane,omitempty"`

	// Into is the lane children of a serial or parallel node are placed in.
	Into string `yaml:"into,omitempty"`

	// AutoComplete applies to list nodes, true when omitted.
	AutoComplete *bool `yaml:"auto_complete,omitempty"`

	// Blocking overrides the blocking flag of the built action.
	// Children of serial and parallel nodes are (un)blocked by their parent regardless.
	Blocking *bool `yaml:"blocking,omitempty"`

	Params   Params  `yaml:"params,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// Load decodes a timeline. Unknown fields are rejected.
func Load(r io.Reader) (*Node, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var n Node
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("parsing timeline: %w", err)
	}

	return &n, nil
}

// Parse decodes a timeline held in memory.
func Parse(data []byte) (*Node, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile decodes the timeline stored at path.
func LoadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading timeline: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Build turns the node and its children into actions, leaves coming from reg.
// Errors name the offending node, e.g. "children[1].children[0]: script: unknown kind".
func (n *Node) Build(reg Registry) (act.Action, error) {
	return n.build(reg, "root")
}

func (n *Node) build(reg Registry, path string) (act.Action, error) {
	var (
		a   act.Action
		err error
	)

	// an empty sequence entry decodes to a nil node
	if n == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingKind)
	}

	switch n.Kind {
	case "":
		return nil, fmt.Errorf("%s: %w", path, ErrMissingKind)
	case KindSerial, KindParallel:
		a, err = n.buildComposite(reg, path)
	case KindList:
		a, err = n.buildList(reg, path)
	default:
		a, err = n.buildLeaf(reg, path)
	}
	if err != nil {
		return nil, err
	}

	if n.Blocking != nil {
		if *n.Blocking {
			a.Block()
		} else {
			a.Unblock()
		}
	}

	return a, nil
}

func (n *Node) buildComposite(reg Registry, path string) (act.Action, error) {
	children := make([]act.Action, 0, len(n.Children))
	for i, child := range n.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)

		if child != nil && child.Lane != "" {
			return nil, fmt.Errorf("%s: %w (use into on the %s node)", childPath, ErrMisplacedLane, n.Kind)
		}

		a, err := child.build(reg, childPath)
		if err != nil {
			return nil, err
		}
		children = append(children, a)
	}

	var (
		l   *act.List
		err error
	)
	if n.Kind == KindSerial {
		l, err = act.Serial(children, n.Into)
	} else {
		l, err = act.Parallel(children, n.Into)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return l, nil
}

func (n *Node) buildList(reg Registry, path string) (act.Action, error) {
	autoComplete := true
	if n.AutoComplete != nil {
		autoComplete = *n.AutoComplete
	}

	l := act.NewList(autoComplete)
	for i, child := range n.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)

		a, err := child.build(reg, childPath)
		if err != nil {
			return nil, err
		}

		if err := l.Append(a, child.Lane); err != nil {
			return nil, fmt.Errorf("%s: %w", childPath, err)
		}
	}

	return l, nil
}

func (n *Node) buildLeaf(reg Registry, path string) (act.Action, error) {
	factory, ok := reg[n.Kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnknownKind, n.Kind)
	}

	a, err := factory(n.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", path, n.Kind, err)
	}
	if a == nil {
		return nil, fmt.Errorf("%s: %s: %w", path, n.Kind, act.ErrNilAction)
	}

	return a, nil
}
