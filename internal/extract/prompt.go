package extract

import (
	"fmt"
	"strings"

	"github.com/vbonduro/installquote/internal/catalog"
)

// SystemPrompt is shared by all extraction backends.
const SystemPrompt = `You read point-of-sale hardware quotes and order documents for restaurants.
Respond with a single JSON object and nothing else, in this shape:
{"stationGroups":[{"name":string,"quantity":int,"items":[{"productName":string,"quantity":int,"mappedHardwareIds":[string]}]}],
 "ungroupedItems":[{"productName":string,"quantity":int,"mappedHardwareIds":[string]}],
 "clientInfo":{"name":string,"address":string,"contact":string},
 "software":[{"id":string,"name":string}]}
A station group is a repeated workstation bundle (for example "Server Station x3").
Items not tied to a station go in ungroupedItems. Only use hardware and software ids
from the lists below; leave mappedHardwareIds empty when unsure.`

// BuildPrompt appends the catalog ids and the document text to the user turn.
func BuildPrompt(c *catalog.Catalog, document string) string {
	var b strings.Builder
	b.WriteString("Hardware ids:\n")
	for _, h := range c.HardwareItems() {
		fmt.Fprintf(&b, "- %s (%s)\n", h.ID, h.Name)
	}
	b.WriteString("Software ids:\n")
	for _, i := range c.Integrations() {
		fmt.Fprintf(&b, "- %s (%s)\n", i.ID, i.Name)
	}
	b.WriteString("\nDocument:\n")
	b.WriteString(document)
	return b.String()
}
