package model

// RawRecord is the unnormalized key-value shape a source provider returns.
// Field sets differ per source; the normalizer maps them onto Entity.
type RawRecord map[string]string

func (r RawRecord) Get(key string) string { return r[key] }
