package ids

import (
	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewRequestID returns a sortable, globally unique request id.
func NewRequestID() string {
	return ksuid.New().String()
}

// Node generates snowflake ids for one process.
type Node struct {
	node *snowflake.Node
}

func NewNode(nodeID int64) (*Node, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Node{node: n}, nil
}

func (n *Node) Next() int64 {
	return n.node.Generate().Int64()
}
