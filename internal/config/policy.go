package config

import "git.home.luguber.info/inful/docnav/internal/foundation/normalization"

// Policy decides what happens when a link check finds a problem.
type Policy string

const (
	PolicyThrow  Policy = "throw"
	PolicyWarn   Policy = "warn"
	PolicyIgnore Policy = "ignore"
)

var policyNormalizer = normalization.NewNormalizer(map[string]Policy{
	"throw":   PolicyThrow,
	"error":   PolicyThrow,
	"fail":    PolicyThrow,
	"warn":    PolicyWarn,
	"warning": PolicyWarn,
	"ignore":  PolicyIgnore,
	"off":     PolicyIgnore,
}, "")

var colorModeNormalizer = normalization.NewNormalizer(map[string]string{
	"light": "light",
	"dark":  "dark",
}, "")

// NormalizePolicy returns the canonical policy for raw, or "" when raw is not recognized.
func NormalizePolicy(raw string) Policy {
	return policyNormalizer.Normalize(raw)
}
