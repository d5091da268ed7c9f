package utils

import (
	"log"
	"strings"

	"github.com/bwmarrin/snowflake"
)

var idNode *snowflake.Node

func init() {
	var err error
	idNode, err = snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("Failed to initialise id generator: %v", err)
	}
}

// NewOrderID returns a process-unique order identifier. Snowflake ids embed
// the generation timestamp, so ids sort roughly by creation time.
func NewOrderID() string {
	return "ord_" + strings.ToLower(idNode.Generate().Base36())
}

// NewEnquiryID returns a process-unique enquiry identifier.
func NewEnquiryID() string {
	return "enq_" + strings.ToLower(idNode.Generate().Base36())
}
