package allocator

import "github.com/goliatone/go-rmw/core"

var (
	_ core.Allocator = Heap{}
	_ core.Allocator = Invalid{}
	_ core.Allocator = (*Tracking)(nil)
)
