// internal/defs/loader.go
package defs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var sectionExts = []string{".yaml", ".yml", ".json"}

// section describes one configuration file of the catalog directory.
type section struct {
	name     string
	required bool
	target   func(c *Catalog) any
}

var sections = []section{
	{"game_settings", false, func(c *Catalog) any { return &c.Settings }},
	{"status_effects", false, func(c *Catalog) any { return &c.Effects }},
	{"enemy_types", true, func(c *Catalog) any { return &c.Enemies }},
	{"boss_types", false, func(c *Catalog) any { return &c.Bosses }},
	{"tower_types", true, func(c *Catalog) any { return &c.Towers }},
	{"targeting_ai", false, func(c *Catalog) any { return &c.Personas }},
	{"wave_scaling", true, func(c *Catalog) any { return &c.WaveScaling }},
	{"difficulty_scaling", true, func(c *Catalog) any { return &c.Difficulties }},
	{"formations", false, func(c *Catalog) any { return &c.Formations }},
	{"director", false, func(c *Catalog) any { return &c.Director }},
	{"level_styles", true, func(c *Catalog) any { return &c.LevelStyles }},
	{"global_upgrades", false, func(c *Catalog) any { return &c.GlobalUpgrades }},
}

// Load reads every section of dir plus the upgrades/ subdirectory and returns
// a validated catalog.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{}
	for _, s := range sections {
		path, data, err := readSection(dir, s.name)
		if errors.Is(err, fs.ErrNotExist) && !s.required {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("defs: load %s: %w", s.name, err)
		}
		if err := decodeStrict(data, s.target(c)); err != nil {
			return nil, fmt.Errorf("defs: load %s: %w", path, err)
		}
	}

	// buffer_types ложатся в общий пул врагов с пометкой варианта.
	if path, data, err := readSection(dir, "buffer_types"); err == nil {
		buffers := map[string]EnemyDef{}
		if err := decodeStrict(data, &buffers); err != nil {
			return nil, fmt.Errorf("defs: load %s: %w", path, err)
		}
		if c.Enemies == nil {
			c.Enemies = map[string]EnemyDef{}
		}
		for id, b := range buffers {
			if _, dup := c.Enemies[id]; dup {
				return nil, fmt.Errorf("defs: load %s: duplicate enemy id %q", path, id)
			}
			b.Variant = VariantBuffer
			c.Enemies[id] = b
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("defs: load buffer_types: %w", err)
	}

	if err := loadUpgrades(filepath.Join(dir, "upgrades"), c); err != nil {
		return nil, err
	}

	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("defs: validate: %w", err)
	}
	log.Printf("defs: loaded %d towers, %d enemies, %d bosses, %d effects from %s",
		len(c.Towers), len(c.Enemies), len(c.Bosses), len(c.Effects), dir)
	return c, nil
}

func readSection(dir, name string) (string, []byte, error) {
	for _, ext := range sectionExts {
		path := filepath.Join(dir, name+ext)
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return path, nil, err
		}
	}
	return "", nil, fs.ErrNotExist
}

// decodeStrict decodes YAML (and therefore JSON) rejecting unknown fields.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

// loadUpgrades reads upgrades/<tower>.yaml. The file stem is the tower id.
func loadUpgrades(dir string, c *Catalog) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("defs: load upgrades: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !IsConfigFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		towerID := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		tower, ok := c.Towers[towerID]
		if !ok {
			return fmt.Errorf("defs: load %s: tower %q: %w", path, towerID, ErrUnknownID)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("defs: load %s: %w", path, err)
		}
		var set UpgradeSet
		if err := decodeStrict(data, &set); err != nil {
			return fmt.Errorf("defs: load %s: %w", path, err)
		}
		tower.Upgrades = set
		c.Towers[towerID] = tower
	}
	return nil
}

// IsConfigFile reports whether path has a catalog extension.
func IsConfigFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range sectionExts {
		if ext == e {
			return true
		}
	}
	return false
}
