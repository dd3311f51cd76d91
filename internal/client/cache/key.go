package cache

import (
	"fmt"
	"strings"
)

// Key identifies one cache entry, e.g. "categories:list" or "product:42".
type Key string

// NewKey joins a resource name and its arguments with colons.
func NewKey(resource string, args ...any) Key {
	if len(args) == 0 {
		return Key(resource)
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, resource)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return Key(strings.Join(parts, ":"))
}

func (k Key) String() string { return string(k) }

// ListID is the conventional tag ID of a whole collection.
const ListID = "LIST"

// Tag labels cached data so writes can find the entries they outdate.
// A Tag with an empty ID covers every tag of its Type.
type Tag struct {
	Type string
	ID   string
}

func TypeTag(typ string) Tag   { return Tag{Type: typ} }
func IDTag(typ, id string) Tag { return Tag{Type: typ, ID: id} }
func ListTag(typ string) Tag   { return Tag{Type: typ, ID: ListID} }

func (t Tag) String() string {
	if t.ID == "" {
		return t.Type
	}
	return t.Type + ":" + t.ID
}

// covers reports whether invalidating t outdates data that provides p.
func (t Tag) covers(p Tag) bool {
	if t.Type != p.Type {
		return false
	}
	return t.ID == "" || t.ID == p.ID
}
