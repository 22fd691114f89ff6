package record

import (
	"strconv"

	"github.com/snapstub/snapstub/pkg/stub"
)

// collapseIntoScenarios links stubs with the same method and URL into a
// multi-step scenario so repeated identical requests replay their recorded
// responses in order. The first stub of each group requires the started
// state; each stub advances the scenario to the state its successor
// requires, with the final stub leaving the state alone.
//
// Stubs with unique request keys are left untouched.
func collapseIntoScenarios(mappings []*stub.Mapping) {
	groups := make(map[string][]*stub.Mapping)
	order := make([]string, 0, len(mappings))

	for _, m := range mappings {
		key := m.Request.Method + " " + m.Request.URL
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		scenario := "scenario-" + group[0].Name
		state := stub.StartedState
		for i, m := range group {
			m.Scenario = scenario
			m.RequiredState = state
			if i < len(group)-1 {
				state = scenario + "-" + strconv.Itoa(i+2)
				m.NewState = state
			}
		}
	}
}
