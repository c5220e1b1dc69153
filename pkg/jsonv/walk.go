package jsonv

import (
	"iter"
	"strconv"
)

// RootPath is the structural path of the document root.
const RootPath = "$"

// Node is an object reached by Walk together with its structural path,
// e.g. "$.dros[2].vrs[0]".
type Node struct {
	Path   string
	Object *Object
}

// Walk yields every object reachable from root, depth-first and pre-order.
// Arrays and scalars are traversed but not yielded. Array elements extend the
// path with "[i]", object members with ".key".
func Walk(root Value) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(root, RootPath, yield)
	}
}

func walk(v Value, path string, yield func(Node) bool) bool {
	switch t := v.(type) {
	case Array:
		for i, el := range t {
			if !walk(el, path+"["+strconv.Itoa(i)+"]", yield) {
				return false
			}
		}
	case *Object:
		if t == nil {
			return true
		}
		if !yield(Node{Path: path, Object: t}) {
			return false
		}
		for _, f := range t.fields {
			if !walk(f.Value, path+"."+f.Key, yield) {
				return false
			}
		}
	}
	return true
}
