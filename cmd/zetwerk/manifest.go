package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mheijink/zetwerk/profile"
)

// runInput is a command's resolved input: the chapter snapshot to open plus
// manifest-supplied defaults for the profile and baseline paths.
type runInput struct {
	snapshot string
	profile  string
	baseline string
}

// resolveInput determines which snapshot a command operates on. A positional
// snapshot argument wins. Without one, the book manifest named by --manifest
// supplies the configured chapter's snapshot, and its profile and baseline
// entries fill in whatever the flags left empty.
func resolveInput(args []string) (runInput, error) {
	in := runInput{profile: viper.GetString("profile")}
	if len(args) > 0 {
		in.snapshot = args[0]
		return in, nil
	}

	path := viper.GetString("manifest")
	if path == "" {
		return in, fmt.Errorf("a snapshot argument or --manifest is required")
	}
	m, err := profile.LoadManifest(path)
	if err != nil {
		return in, err
	}

	n := viper.GetInt("chapter")
	entry := m.Chapter(n)
	if entry == nil {
		return in, fmt.Errorf("manifest %s has no chapter %d", path, n)
	}
	in.snapshot = entry.Snapshot
	in.baseline = entry.Baseline
	if in.profile == "" {
		in.profile = m.Profile
	}
	return in, nil
}
