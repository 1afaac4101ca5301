package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnEntry places Count copies of an archetype, Spacing apart, starting
// at Position.
type SpawnEntry struct {
	Archetype string     `yaml:"archetype"`
	Name      string     `yaml:"name"`
	Position  [3]float32 `yaml:"position"`
	Rotation  [3]float32 `yaml:"rotation"`
	Count     int        `yaml:"count"`
	Spacing   [3]float32 `yaml:"spacing"`
}

// CameraDef places one camera. Kind is "first_person" (collidable, driven
// by the player) or "curve" (follows Keyframes).
type CameraDef struct {
	Name      string        `yaml:"name"`
	Kind      string        `yaml:"kind"`
	Position  [3]float32    `yaml:"position"`
	Rotation  [3]float32    `yaml:"rotation"`
	Keyframes []KeyframeDef `yaml:"keyframes"`
}

type Level struct {
	Name    string       `yaml:"name"`
	Cameras []CameraDef  `yaml:"cameras"`
	Spawns  []SpawnEntry `yaml:"spawns"`
}

// LoadLevel loads level.yaml.
func LoadLevel(path string) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return ParseLevel(raw)
}

func ParseLevel(raw []byte) (*Level, error) {
	var l Level
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if l.Name == "" {
		return nil, fmt.Errorf("level: missing name")
	}
	for i := range l.Spawns {
		if l.Spawns[i].Count <= 0 {
			l.Spawns[i].Count = 1
		}
	}
	for _, c := range l.Cameras {
		switch c.Kind {
		case "first_person", "curve":
		default:
			return nil, fmt.Errorf("level %s: camera %q: unknown kind %q", l.Name, c.Name, c.Kind)
		}
	}
	return &l, nil
}

// Validate checks every spawn against the archetype table.
func (l *Level) Validate(t *ArchetypeTable) error {
	for i, s := range l.Spawns {
		if t.Get(s.Archetype) == nil {
			return fmt.Errorf("level %s: spawn %d: unknown archetype %q", l.Name, i, s.Archetype)
		}
	}
	return nil
}

// Total returns the number of objects the spawn list creates.
func (l *Level) Total() int {
	n := 0
	for _, s := range l.Spawns {
		n += s.Count
	}
	return n
}
