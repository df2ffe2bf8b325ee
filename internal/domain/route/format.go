package route

import (
	"fmt"
	"math"
)

// FormatDistance renders meters as "X.X km" from 1000 m upward, otherwise
// "N m".
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", math.Round(meters))
}

// FormatDuration renders seconds as "Hh Mmin" from one hour upward,
// otherwise "N min".
func FormatDuration(seconds float64) string {
	if seconds >= 3600 {
		hours := int(seconds / 3600)
		mins := int(math.Round(math.Mod(seconds, 3600) / 60))
		return fmt.Sprintf("%dh %dmin", hours, mins)
	}
	return fmt.Sprintf("%.0f min", math.Round(seconds/60))
}

// modifierInstructions maps routing maneuver modifiers to spoken phrases.
var modifierInstructions = map[string]string{
	"left":         "Turn left",
	"right":        "Turn right",
	"sharp left":   "Sharp left",
	"sharp right":  "Sharp right",
	"slight left":  "Bear left",
	"slight right": "Bear right",
	"straight":     "Continue straight",
	"uturn":        "Make a U-turn",
}

// Instruction translates a raw maneuver type, modifier and street name into
// a human instruction. Unrecognized modifiers fall back to
// "Continue onto {street}".
func Instruction(maneuverType, modifier, streetName string) string {
	name := streetName
	if name == "" {
		name = "the road"
	}

	switch maneuverType {
	case "depart":
		return fmt.Sprintf("Head towards %s", name)
	case "arrive":
		return "You have arrived at your destination"
	case "roundabout", "rotary":
		return fmt.Sprintf("Enter roundabout, then exit onto %s", name)
	case "merge":
		return fmt.Sprintf("Merge onto %s", name)
	case "fork":
		if modifier == "left" {
			return fmt.Sprintf("Keep left onto %s", name)
		}
		return fmt.Sprintf("Keep right onto %s", name)
	}

	turn, ok := modifierInstructions[modifier]
	if !ok {
		turn = "Continue"
	}
	return fmt.Sprintf("%s onto %s", turn, name)
}
