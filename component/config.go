package component

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Config maps configuration keys to arbitrary values.
type Config map[string]any

// TypeKey is the reserved configuration key naming a component's
// implementation. Decode skips it.
const TypeKey = "type"

// Merge returns a new Config holding every key of defaults overlaid by every key
// of overrides. The overlay is one level deep: a nested map in overrides
// replaces the nested map in defaults. Neither argument is modified.
func Merge(defaults, overrides Config) Config {
	merged := make(Config, len(defaults)+len(overrides))
	maps.Copy(merged, defaults)
	maps.Copy(merged, overrides)
	return merged
}

// Clone returns a shallow copy of c; a nil Config clones to an empty one.
func (c Config) Clone() Config {
	return Merge(c, nil)
}

// Decode fills out, a pointer to a typed configuration struct, from cfg.
// Fields are matched through `mapstructure` tags; scalar values are converted
// where the conversion is lossless (e.g. "5" to int) and keys without a
// matching field are an error. TypeKey is not decoded.
func Decode(cfg Config, out any) error {
	if _, ok := cfg[TypeKey]; ok {
		cfg = cfg.Clone()
		delete(cfg, TypeKey)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("build config decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(cfg)); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
