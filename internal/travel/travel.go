// Package travel classifies a location's address into a travel zone and
// derives the service-mode related travel flags.
package travel

import (
	"regexp"
	"strings"

	"github.com/vbonduro/installquote/internal/domain"
)

var islandTowns = []string{
	"nantucket", "martha's vineyard", "marthas vineyard", "edgartown", "oak bluffs",
	"vineyard haven", "tisbury", "chilmark", "aquinnah", "menemsha", "siasconset",
	"block island", "new shoreham", "cuttyhunk",
}

var capeTowns = []string{
	"provincetown", "truro", "wellfleet", "eastham", "orleans", "chatham", "brewster",
	"harwich", "dennis", "yarmouth", "barnstable", "hyannis", "centerville", "osterville",
	"cotuit", "mashpee", "falmouth", "woods hole", "sandwich", "bourne", "buzzards bay",
	"cape cod",
}

var southShoreTowns = []string{
	"plymouth", "kingston", "duxbury", "marshfield", "scituate", "cohasset", "hingham",
	"hull", "weymouth", "braintree", "quincy", "norwell", "hanover", "pembroke", "rockland",
	"abington", "whitman", "hanson", "halifax", "plympton", "carver", "wareham", "marion",
	"mattapoisett", "south shore",
}

var southernNENames = []string{
	"massachusetts", "rhode island", "connecticut", "boston", "providence", "worcester",
	"new bedford", "fall river", "brockton", "taunton", "springfield", "hartford",
	"new haven", "newport", "warwick", "cambridge", "lowell",
}

var northernNENames = []string{
	"new hampshire", "vermont", "maine", "portland", "burlington", "manchester",
	"concord", "bangor",
}

// State abbreviations only count after a comma so that words such as "main"
// do not match.
var (
	southernNEStates = regexp.MustCompile(`,\s*(ma|ri|ct)\b`)
	northernNEStates = regexp.MustCompile(`,\s*(nh|vt|me)\b`)
)

// recommendedMode is the service mode proposed for each zone.
var recommendedMode = map[domain.TravelZone]domain.ServiceMode{
	domain.ZoneCape:        domain.ModeOnsite,
	domain.ZoneSouthShore:  domain.ModeOnsite,
	domain.ZoneSouthernNE:  domain.ModeOnsite,
	domain.ZoneNE100Plus:   domain.ModeHybrid,
	domain.ZoneIsland:      domain.ModeHybrid,
	domain.ZoneOutOfRegion: domain.ModeRemote,
}

// distantZones cannot be flat-rate priced for on-site work.
var distantZones = map[domain.TravelZone]bool{
	domain.ZoneNE100Plus:   true,
	domain.ZoneIsland:      true,
	domain.ZoneOutOfRegion: true,
}

// Patch is the partial travel update proposed by Classify.
type Patch struct {
	Zone                     domain.TravelZone
	ServiceMode              domain.ServiceMode
	TravelDiscussionRequired bool
}

// Classify maps a free-text address onto a travel zone. Island towns take
// precedence over Cape towns, then South Shore, then the broader region.
// Unknown or empty addresses resolve to outOfRegion.
func Classify(address string) Patch {
	zone := classifyZone(strings.ToLower(address))
	return Patch{Zone: zone, ServiceMode: RecommendedMode(zone)}
}

func classifyZone(addr string) domain.TravelZone {
	switch {
	case strings.TrimSpace(addr) == "":
		return domain.ZoneOutOfRegion
	case containsAny(addr, islandTowns):
		return domain.ZoneIsland
	case containsAny(addr, capeTowns):
		return domain.ZoneCape
	case containsAny(addr, southShoreTowns):
		return domain.ZoneSouthShore
	case containsAny(addr, southernNENames) || southernNEStates.MatchString(addr):
		return domain.ZoneSouthernNE
	case containsAny(addr, northernNENames) || northernNEStates.MatchString(addr):
		return domain.ZoneNE100Plus
	default:
		return domain.ZoneOutOfRegion
	}
}

// containsAny reports whether any name appears in s as a whole word. A name
// right after "new " is a different place ("new orleans" is not Orleans).
func containsAny(s string, names []string) bool {
	for _, n := range names {
		for from := 0; ; {
			i := strings.Index(s[from:], n)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(n)
			if wordAt(s, start, end) {
				return true
			}
			from = start + 1
		}
	}
	return false
}

func wordAt(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return !strings.HasSuffix(s[:start], "new ")
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// RecommendedMode returns the service mode proposed for zone.
func RecommendedMode(zone domain.TravelZone) domain.ServiceMode {
	if m, ok := recommendedMode[zone]; ok {
		return m
	}
	return domain.ModeRemote
}

// IsDistant reports whether on-site work in zone needs a travel discussion.
func IsDistant(zone domain.TravelZone) bool {
	return distantZones[zone]
}

// ApplyAddress classifies address and applies the result to s. A location
// already in remote mode keeps its zone and mode.
func ApplyAddress(s domain.TravelSettings, address string) domain.TravelSettings {
	if s.ServiceMode == domain.ModeRemote {
		return s
	}
	p := Classify(address)
	s.Zone = p.Zone
	s.ServiceMode = p.ServiceMode
	s.Remote = p.ServiceMode == domain.ModeRemote
	s.TravelDiscussionRequired = p.TravelDiscussionRequired
	if s.Zone != domain.ZoneIsland {
		s.Island = domain.IslandOptions{}
	}
	return s
}

// SetServiceMode switches the service mode and recomputes the remote mirror
// and the travel discussion flag.
func SetServiceMode(s domain.TravelSettings, mode domain.ServiceMode) domain.TravelSettings {
	s.ServiceMode = mode
	s.Remote = mode == domain.ModeRemote
	s.TravelDiscussionRequired = mode != domain.ModeRemote && IsDistant(s.Zone)
	return s
}
