package types

const redactedPlaceholder = "***REDACTED***"

// SecretString holds a sensitive value (the Fonnte token, the database URL)
// and redacts itself under fmt and JSON marshalling. Only Unmask hands out
// the plaintext, which keeps secrets out of logs and config dumps unless the
// call site asks for them explicitly.
type SecretString string

func (s SecretString) String() string {
	return redactedPlaceholder
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redactedPlaceholder + `"`), nil
}

// Unmask returns the raw value for handing to drivers and HTTP clients.
func (s SecretString) Unmask() string {
	return string(s)
}
