package stale

type Plain struct{}

// Tracked has a directive.
//
//kgraph:managed
type Tracked struct {
	N int
}

// Pooled is shared.
//
//note: don't pool this
//kgraph:managed
type Pooled struct{}

// Broken has a bad directive.
//
//kgraph:managed "unterminated
//kgraph:abstract
type Broken struct{}

type (
	// First is grouped.
	//kgraph:abstract
	First struct{}
	Second struct{}
)
