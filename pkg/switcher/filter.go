package switcher

import (
	"fmt"
	"regexp"

	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

// FilterConfig holds the user's include/exclude patterns, in config file order
type FilterConfig struct {
	IncludeNames        []string `mapstructure:"include_names"`
	IncludeDescriptions []string `mapstructure:"include_descriptions"`
	ExcludeNames        []string `mapstructure:"exclude_names"`
	ExcludeDescriptions []string `mapstructure:"exclude_descriptions"`
}

// patternSet matches a string if any of its patterns matches somewhere in it
type patternSet []*regexp.Regexp

func compilePatternSet(key string, patterns []string) (patternSet, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	set := make(patternSet, 0, len(patterns))
	for idx, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &PatternError{Key: key, Index: idx, Pattern: pattern, Err: err}
		}
		set = append(set, re)
	}

	return set, nil
}

func (ps patternSet) matches(s string) bool {
	for _, re := range ps {
		if re.MatchString(s) {
			return true
		}
	}

	return false
}

func (ps patternSet) String() string {
	if ps == nil {
		return "<none>"
	}

	return fmt.Sprintf("<%d patterns>", len(ps))
}

// DeviceFilter decides which devices take part in rotation.
//
// Names take priority over descriptions on each side: when include_names is configured,
// include_descriptions is never consulted, and likewise for the exclude lists. This is
// not an AND/OR of both lists, which can be surprising but is relied on by existing configs.
type DeviceFilter struct {
	logger *zap.SugaredLogger
	trace  bool

	includeName patternSet
	includeDesc patternSet
	excludeName patternSet
	excludeDesc patternSet
}

// CompileFilter compiles every configured pattern. A single bad pattern fails the whole filter.
// When trace is set, each evaluation logs its intermediate include/exclude decisions.
func CompileFilter(logger *zap.SugaredLogger, cfg FilterConfig, trace bool) (*DeviceFilter, error) {
	logger = logger.Named("filter")

	f := &DeviceFilter{
		logger: logger,
		trace:  trace,
	}

	var err error

	if f.includeName, err = compilePatternSet(configKey_IncludeNames, cfg.IncludeNames); err != nil {
		logger.Warnw("Failed to compile include name patterns", "error", err)
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	if f.includeDesc, err = compilePatternSet(configKey_IncludeDescriptions, cfg.IncludeDescriptions); err != nil {
		logger.Warnw("Failed to compile include description patterns", "error", err)
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	if f.excludeName, err = compilePatternSet(configKey_ExcludeNames, cfg.ExcludeNames); err != nil {
		logger.Warnw("Failed to compile exclude name patterns", "error", err)
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	if f.excludeDesc, err = compilePatternSet(configKey_ExcludeDescriptions, cfg.ExcludeDescriptions); err != nil {
		logger.Warnw("Failed to compile exclude description patterns", "error", err)
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	logger.Debugw("Created device filter instance", "filter", f)

	return f, nil
}

// Match reports whether the device passes the filter
func (f *DeviceFilter) Match(d Device) bool {
	var wantInclude bool
	switch {
	case f.includeName != nil:
		wantInclude = f.includeName.matches(d.Name)
	case f.includeDesc != nil:
		wantInclude = f.includeDesc.matches(d.Description)
	default:
		// nothing to include by, so include everything
		wantInclude = true
	}

	var wantExclude bool
	switch {
	case f.excludeName != nil:
		wantExclude = f.excludeName.matches(d.Name)
	case f.excludeDesc != nil:
		wantExclude = f.excludeDesc.matches(d.Description)
	}

	if f.trace {
		f.logger.Debugw("Evaluated device", "name", d.Name, "wantInclude", wantInclude, "wantExclude", wantExclude)
	}

	return wantInclude && !wantExclude
}

// Apply returns the devices that pass the filter, in their original order
func (f *DeviceFilter) Apply(devices []Device) []Device {
	if len(devices) == 0 {
		return []Device{}
	}

	return funk.Filter(devices, f.Match).([]Device)
}

func (f *DeviceFilter) String() string {
	return fmt.Sprintf("<include names: %s, include descriptions: %s, exclude names: %s, exclude descriptions: %s>",
		f.includeName, f.includeDesc, f.excludeName, f.excludeDesc)
}
