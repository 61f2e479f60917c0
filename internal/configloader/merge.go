package configloader

import "github.com/yaklabco/html7/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Strings and ints: override wins when non-zero
//   - Booleans (pointers): override wins when set, so false can undo true
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	mergeString(&result.Root, override.Root)
	mergeString(&result.OutDir, override.OutDir)
	mergeString(&result.Entry, override.Entry)
	mergeString(&result.Output, override.Output)
	mergeString(&result.HTMLAdd, override.HTMLAdd)
	mergeString(&result.Indent, override.Indent)

	mergeString(&result.Tags.Standard, override.Tags.Standard)
	mergeString(&result.Tags.SelfClosing, override.Tags.SelfClosing)
	mergeString(&result.Tags.OptionalSelfClosing, override.Tags.OptionalSelfClosing)

	if override.Minify != nil {
		result.Minify = override.Minify
	}
	if override.Credits != nil {
		result.Credits = override.Credits
	}
	if override.AllowOptionalSelfClosing != nil {
		result.AllowOptionalSelfClosing = override.AllowOptionalSelfClosing
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Check {
		result.Check = true
	}

	return &result
}

func mergeString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
