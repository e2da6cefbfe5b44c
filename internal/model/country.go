package model

// supportedCountries is the fixed set of selectable countries. It mirrors
// the territories the world map renders.
var supportedCountries = map[string]bool{
	"brazil":  true,
	"china":   true,
	"france":  true,
	"germany": true,
	"india":   true,
	"japan":   true,
	"russia":  true,
	"turkey":  true,
	"uk":      true,
	"usa":     true,
}

// ValidCountry reports whether the country id is selectable
func ValidCountry(country string) bool {
	return supportedCountries[country]
}
