package models

// SessionKey names one piece of client state mirrored on the server.
type SessionKey string

const (
	SessionKeyActiveTab    SessionKey = "activeTab"
	SessionKeyVerifierData SessionKey = "verifierData"
	SessionKeySourceData   SessionKey = "sourceData"
)

// SessionIDPrefix prefixes every generated session id.
const SessionIDPrefix = "session_"

var sessionDefaults = map[SessionKey]string{
	SessionKeyActiveTab:    `"addressVerifier"`,
	SessionKeyVerifierData: `{"postcode":"","suburb":"","state":"","result":null}`,
	SessionKeySourceData:   `{"query":"","categories":[],"results":[],"selectedLocation":null}`,
}

// ParseSessionKey returns the typed key for s, or false if s is not a known key.
func ParseSessionKey(s string) (SessionKey, bool) {
	k := SessionKey(s)
	_, ok := sessionDefaults[k]
	return k, ok
}

// Default returns the JSON document used when nothing is stored for k.
func (k SessionKey) Default() string {
	return sessionDefaults[k]
}

func SessionKeys() []SessionKey {
	return []SessionKey{SessionKeyActiveTab, SessionKeyVerifierData, SessionKeySourceData}
}
