package doctree

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NodeID is the id of a tree element. Builder-created elements use integer
// ids, update-tool-created elements use "el-" + 8 hex chars. Two ids refer
// to the same node when their string forms are equal.
type NodeID struct {
	str   string
	num   int64
	isInt bool
}

func IntID(n int64) NodeID {
	return NodeID{num: n, isInt: true}
}

func StringID(s string) NodeID {
	return NodeID{str: s}
}

// ParseNodeID accepts the id representations that survive a JSON decode:
// Go integers, integral floats, json.Number and strings.
func ParseNodeID(v interface{}) (NodeID, bool) {
	switch id := v.(type) {
	case int:
		return IntID(int64(id)), true
	case int32:
		return IntID(int64(id)), true
	case int64:
		return IntID(id), true
	case float64:
		if id == math.Trunc(id) {
			return IntID(int64(id)), true
		}
		return NodeID{}, false
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return IntID(n), true
		}
		return NodeID{}, false
	case string:
		if id == "" {
			return NodeID{}, false
		}
		return StringID(id), true
	default:
		return NodeID{}, false
	}
}

func (id NodeID) IsInt() bool {
	return id.isInt
}

// Int returns the integer value for integer ids.
func (id NodeID) Int() (int64, bool) {
	return id.num, id.isInt
}

func (id NodeID) String() string {
	if id.isInt {
		return strconv.FormatInt(id.num, 10)
	}
	return id.str
}

// Equal compares by string form, so the integer 7 and the string "7"
// address the same node.
func (id NodeID) Equal(other NodeID) bool {
	return id.String() == other.String()
}

// Value returns the representation to store back into a raw tree: int64
// for integer ids (marshals as a JSON number) and string otherwise.
func (id NodeID) Value() interface{} {
	if id.isInt {
		return id.num
	}
	return id.str
}

// NumericValue returns the value an id contributes to the next-node-id
// computation: the integer itself, or the trailing digit group of a
// string id ("el-copy-17" -> 17). Ids without digits contribute nothing.
func (id NodeID) NumericValue() (int64, bool) {
	if id.isInt {
		return id.num, true
	}
	s := id.str
	end := len(s)
	for end > 0 && s[end-1] >= '0' && s[end-1] <= '9' {
		end--
	}
	if end == len(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s[end:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NewElementID returns a fresh string id in the "el-" + 8 hex chars form
// used for elements created outside the visual builder.
func NewElementID() string {
	return "el-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
