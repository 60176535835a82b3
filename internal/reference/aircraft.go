package reference

import "fmt"

var aircraftNames = map[string]string{
	"320": "Airbus A320",
	"73H": "Boeing 737-800",
	"333": "Airbus A330-300",
	"77W": "Boeing 777-300ER",
	"388": "Airbus A380",
	"739": "Boeing 737-900",
	"321": "Airbus A321",
	"788": "Boeing 787-8 Dreamliner",
	"E75": "Embraer 175",
	"CR9": "Bombardier CRJ-900",
}

// AircraftName maps an IATA aircraft code to a display name.
func AircraftName(code string) string {
	if name, ok := aircraftNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Aircraft (%s)", code)
}
