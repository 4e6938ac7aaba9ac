// internal/resolvers/address/validate-address/config.go
package validateaddress

import "fmt"

const (
	msgValid            = "The postcode, suburb, and state input are valid."
	msgSuburbNotFound   = "The suburb %s does not exist in the state %s."
	msgPostcodeMismatch = "The postcode %s does not match the suburb %s."
	msgError            = "Error during address validation: %s"
	msgUpstreamStatus   = "upstream returned status %d"
)

type Config struct {
	// LogActivity records a VERIFY entry for every validation.
	LogActivity bool
}

func LoadConfig(serverSideLogging bool) *Config {
	return &Config{LogActivity: serverSideLogging}
}

func suburbNotFound(suburb, state string) string {
	return fmt.Sprintf(msgSuburbNotFound, suburb, state)
}

func postcodeMismatch(postcode, suburb string) string {
	return fmt.Sprintf(msgPostcodeMismatch, postcode, suburb)
}
