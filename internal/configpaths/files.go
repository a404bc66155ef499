// Package configpaths resolves where the converter looks for its
// configuration files.
package configpaths

import (
	"os"
	"path/filepath"
)

const (
	appDirName = "proconverter"
	systemDir  = "/etc/proconverter"
)

// baseNames are the file stems probed in every candidate directory.
var baseNames = []string{"proconverter", "run"}

// ConfigDir returns the user configuration directory for the converter
// (XDG config home on Linux).
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// CandidatePaths lists the config files to probe, grouped by the loader that
// parses them. An explicit userPath is routed to its loader by extension and
// searched first; after that come the working directory, the user config dir
// and the system directory.
func CandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	buckets := map[string]*[]string{
		".json": &jsonPaths,
		".yaml": &yamlPaths,
		".yml":  &yamlPaths,
		".toml": &tomlPaths,
	}

	if userPath != "" {
		dst, ok := buckets[filepath.Ext(userPath)]
		if !ok {
			dst = &jsonPaths
		}
		*dst = append(*dst, userPath)
	}

	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if userDir, err := ConfigDir(); err == nil {
		dirs = append(dirs, userDir)
	}
	dirs = append(dirs, systemDir)

	for _, dir := range dirs {
		for _, base := range baseNames {
			for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
				dst := buckets[ext]
				*dst = append(*dst, filepath.Join(dir, base+ext))
			}
		}
	}
	return jsonPaths, yamlPaths, tomlPaths
}
