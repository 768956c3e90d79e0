package levels

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed campaign/*.yaml
var campaignFS embed.FS

var (
	campaignOnce   sync.Once
	campaignLevels []Level
	campaignErr    error
)

// Campaign returns the built-in campaign levels sorted by ID.
func Campaign() ([]Level, error) {
	campaignOnce.Do(func() {
		campaignLevels, campaignErr = NewFSLoader(campaignFS, "campaign").LoadAll()
		if campaignErr == nil && len(campaignLevels) == 0 {
			campaignErr = fmt.Errorf("levels: embedded campaign is empty")
		}
	})
	if campaignErr != nil {
		return nil, campaignErr
	}
	out := make([]Level, len(campaignLevels))
	copy(out, campaignLevels)
	return out, nil
}

// MustCampaign is like Campaign but panics on error. The campaign is
// compiled into the binary, so an error here is a build defect.
func MustCampaign() []Level {
	lvls, err := Campaign()
	if err != nil {
		panic(err)
	}
	return lvls
}

// Resolve finds a level by ID among the campaign and, when dir is set, the
// levels found under dir. Directory levels shadow campaign levels with the
// same ID. IDs of the form "endless-N" build an endless stage, and an ID
// with a level file extension is read from that path.
func Resolve(dir, id string) (Level, error) {
	if stage, ok := ParseEndlessID(id); ok {
		return Endless(stage), nil
	}
	if isSupportedExtension(strings.ToLower(filepath.Ext(id))) {
		return LoadFile(id)
	}
	if dir != "" {
		lvl, err := NewLoader(dir).LoadByID(id)
		if err == nil {
			return lvl, nil
		}
	}
	lvls, err := Campaign()
	if err != nil {
		return Level{}, err
	}
	return Find(lvls, id)
}

// All returns the campaign followed by any extra levels under dir whose
// IDs are not already taken.
func All(dir string) ([]Level, error) {
	lvls, err := Campaign()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return lvls, nil
	}

	extra, err := NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(lvls))
	for _, l := range lvls {
		seen[l.ID] = true
	}
	for _, l := range extra {
		if !seen[l.ID] {
			lvls = append(lvls, l)
		}
	}
	return lvls, nil
}
