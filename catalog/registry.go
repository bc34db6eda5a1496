package catalog

import (
	"context"
	"fmt"
	"sort"
)

// Factory creates a Catalog from a configuration map,
// such as the "catalog" object of a JSON config file.
type Factory func(context.Context, map[string]interface{}) (Catalog, error)

var registry = make(map[string]Factory)

// Register makes a Factory available under key.
// Implementations call it from init.
func Register(key string, f Factory) {
	registry[key] = f
}

// Create creates a Catalog using the Factory registered under key.
func Create(ctx context.Context, key string, conf map[string]interface{}) (Catalog, error) {
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("catalog type %s not found in registry (known: %v)", key, Types())
	}
	return f(ctx, conf)
}

// FromConfig creates a Catalog from a map whose "type" entry names the Factory.
func FromConfig(ctx context.Context, conf map[string]interface{}) (Catalog, error) {
	typ, ok := conf["type"].(string)
	if !ok {
		return nil, fmt.Errorf("catalog config missing `type` parameter")
	}
	return Create(ctx, typ, conf)
}

// Types lists the registered keys.
func Types() []string {
	var result []string
	for k := range registry {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
