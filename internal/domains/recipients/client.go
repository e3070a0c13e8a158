package recipients

import (
	"slices"
	"strings"
)

// Client is the recipient of a dispatch. Addresses are passed through to the
// mail transport as given.
type Client struct {
	addresses []string
}

func NewClient(addresses ...string) *Client {
	return &Client{addresses: slices.Clone(addresses)}
}

// Addresses returns a copy of the recipient list, in order
func (c *Client) Addresses() []string {
	return slices.Clone(c.addresses)
}

// ParseAddresses splits a comma-separated list, dropping blank entries
func ParseAddresses(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
