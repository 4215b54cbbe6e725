package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Generator issues unique IDs. Services accept one so tests can pin IDs.
type Generator func() int64

// Init initializes the Snowflake node with the given node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// Format renders an ID in its base-10 wire form, as used in response headers.
func Format(v int64) string {
	return snowflake.ID(v).String()
}
