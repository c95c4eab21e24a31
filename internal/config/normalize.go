package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and list fields before defaults
// are applied. It mutates c in place.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if c == nil {
		return res
	}
	normalizeLogging(&c.Monitoring.Logging, res)
	c.Storage.AllowedTypes = normalizeTypes(c.Storage.AllowedTypes, res)
	c.Storage.RefScheme = strings.TrimSuffix(strings.TrimSpace(c.Storage.RefScheme), ":")
	c.Server.PublicURL = strings.TrimRight(strings.TrimSpace(c.Server.PublicURL), "/")
	c.Storage.RemoteURL = strings.TrimRight(strings.TrimSpace(c.Storage.RemoteURL), "/")
	if c.Resolver.Concurrency < 0 {
		res.Warnings = append(res.Warnings, warnChanged("resolver.concurrency", c.Resolver.Concurrency, 0))
		c.Resolver.Concurrency = 0
	}
	return res
}

func normalizeLogging(l *MonitoringLogging, res *NormalizationResult) {
	if raw := string(l.Level); strings.TrimSpace(raw) != "" {
		lvl, ok := logLevelNormalizer.Lookup(raw)
		switch {
		case !ok:
			res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.level", raw, string(LogLevelInfo)))
		case lvl != l.Level:
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.level", l.Level, lvl))
		}
		l.Level = lvl
	}
	if raw := string(l.Format); strings.TrimSpace(raw) != "" {
		f, ok := logFormatNormalizer.Lookup(raw)
		switch {
		case !ok:
			res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.format", raw, string(LogFormatText)))
		case f != l.Format:
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.format", l.Format, f))
		}
		l.Format = f
	}
}

// normalizeTypes lower-cases, trims and dedupes media types, keeping order.
func normalizeTypes(in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		t := normalization.Key(v)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized storage.allowed_types list (%d -> %d entries)", len(in), len(out)))
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
