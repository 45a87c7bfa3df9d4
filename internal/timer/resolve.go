package timer

import (
	"regexp"

	"go.uber.org/zap"
)

// Resolve turns a command-line name into the final timer name. With explicit
// set the name is used as given. Otherwise the name map is consulted first (a
// mapped name is final, no further lookup), then the name is treated as a
// regular expression and matched against timer names from most recent
// backwards, first match winning. "." therefore resolves to the most recent
// timer. A name that matches nothing, or is not a valid pattern, is used
// as is.
func (l *Log) Resolve(name string, explicit bool) string {
	if explicit {
		return name
	}
	if to, ok := l.NameMap[name]; ok {
		l.logger.Debug("name found in map", zap.String("name", name), zap.String("resolved", to))
		return to
	}
	re, err := regexp.Compile(name)
	if err != nil {
		l.logger.Debug("name is not a valid pattern, using as is", zap.String("name", name))
		return name
	}
	for i := len(l.Timers) - 1; i >= 0; i-- {
		if re.MatchString(l.Timers[i].Name) {
			l.logger.Debug("name matches existing timer",
				zap.String("name", name), zap.String("resolved", l.Timers[i].Name))
			return l.Timers[i].Name
		}
	}
	return name
}
