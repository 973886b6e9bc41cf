package stormnet

import "github.com/dd0wney/stormnet/pkg/bayes"

// WeatherName is the name of the single weather variable
const WeatherName = "Weather"

// Weather states
const (
	Mild    = "mild"
	Stormy  = "stormy"
	Extreme = "extreme"
)

// Boolean states used by Breakage and Evacuee variables
const (
	True  = "true"
	False = "false"
)

// WeatherStates lists weather states in CPT order
var WeatherStates = []string{Mild, Stormy, Extreme}

// Weather is the shared weather variable; every built network uses it
var Weather = bayes.MustVariable(WeatherName, WeatherStates...)

// BreakageName names the breakage variable of vertex v
func BreakageName(v string) string {
	return "Breakage(" + v + ")"
}

// EvacueeName names the evacuee variable of vertex v
func EvacueeName(v string) string {
	return "Evacuee(" + v + ")"
}

func boolVariable(name string) (*bayes.Variable, error) {
	return bayes.NewVariable(name, True, False)
}
