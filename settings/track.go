package settings

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stride-works/kinetic/kerror"
)

// TrackNode is the authored form of one spline control node. Orientation is
// given as yaw/pitch/roll in degrees, applied in that order around Y, X, Z.
type TrackNode struct {
	Position [3]float32 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
	Roll     float32    `yaml:"roll"`
	Weight   float32    `yaml:"weight"`
}

// TrackConfig is the authored form of a grind rail.
type TrackConfig struct {
	Nodes []TrackNode `yaml:"nodes"`
	Loop  bool        `yaml:"loop"`
}

// LoadTrack reads a yaml track authoring file.
func LoadTrack(path string) (TrackConfig, error) {
	var cfg TrackConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, kerror.New("settings: read track %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, kerror.New("settings: parse track %s: %v", path, err)
	}
	return cfg, nil
}
