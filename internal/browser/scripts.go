package browser

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

//go:embed scripts/*.js
var scriptFiles embed.FS

// cache stores script sources to avoid repeated reads of the embedded filesystem.
var (
	cache   = make(map[string]string)
	cacheMu sync.RWMutex
)

// script returns the source of the named page script (without the .js extension).
func script(name string) (string, error) {
	cacheMu.RLock()
	if src, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return src, nil
	}
	cacheMu.RUnlock()

	data, err := scriptFiles.ReadFile(path.Join("scripts", name+".js"))
	if err != nil {
		return "", fmt.Errorf("failed to read page script %s: %w", name, err)
	}
	src := strings.TrimSpace(string(data))

	cacheMu.Lock()
	cache[name] = src
	cacheMu.Unlock()
	return src, nil
}

// expression builds an immediately invoked call of the named script with args encoded as
// a JSON object literal.
func expression(name string, args any) (string, error) {
	src, err := script(name)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode arguments for %s: %w", name, err)
	}
	return "(" + src + ")(" + string(encoded) + ")", nil
}

// Scripts lists the embedded page scripts.
func Scripts() ([]string, error) {
	entries, err := scriptFiles.ReadDir("scripts")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".js"))
	}
	sort.Strings(names)
	return names, nil
}
