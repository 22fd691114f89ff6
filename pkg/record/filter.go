package record

import (
	"strings"

	"github.com/snapstub/snapstub/pkg/traffic"
)

// selectExchanges picks the exchanges belonging to a session: everything
// appended at or after the session boundary whose request was proxied to
// the spec's target origin, in capture order. No deduplication happens
// here; with RepeatsAsScenarios off every qualifying exchange yields one
// stub, duplicates included.
func selectExchanges(log *traffic.Log, boundary uint64, spec *Spec) []*traffic.Exchange {
	candidates := log.Since(boundary)
	if len(candidates) == 0 {
		return nil
	}

	origin := spec.targetOrigin()
	selected := make([]*traffic.Exchange, 0, len(candidates))
	for _, e := range candidates {
		if matchesTarget(e, origin) {
			selected = append(selected, e)
		}
	}
	return selected
}

// matchesTarget reports whether the exchange was proxied to the given
// origin. Origins compare exactly; a full captured URL also qualifies by
// prefix so that targets with a base path work.
func matchesTarget(e *traffic.Exchange, origin string) bool {
	if strings.EqualFold(e.Origin(), origin) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(e.Request.URL), origin+"/")
}
