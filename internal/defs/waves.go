package defs

// LinearFormula is base + wave*per_wave + difficulty*per_level_difficulty.
type LinearFormula struct {
	Base               float64 `yaml:"base"`
	PerWave            float64 `yaml:"per_wave"`
	PerLevelDifficulty float64 `yaml:"per_level_difficulty"`
}

// Eval считает значение формулы для волны и сложности.
func (f LinearFormula) Eval(wave, difficulty int) float64 {
	return f.Base + float64(wave)*f.PerWave + float64(difficulty)*f.PerLevelDifficulty
}

// SpawnCooldown описывает паузу между выходами врагов на одной линии.
type SpawnCooldown struct {
	BaseSeconds                 float64 `yaml:"base_seconds"`
	ReductionPerWave            float64 `yaml:"reduction_per_wave"`
	ReductionPerLevelDifficulty float64 `yaml:"reduction_per_level_difficulty"`
	MinimumSeconds              float64 `yaml:"minimum_seconds"`
}

// At returns max(min, base - wave*rpw - difficulty*rpld).
func (c SpawnCooldown) At(wave, difficulty int) float64 {
	cd := c.BaseSeconds - float64(wave)*c.ReductionPerWave - float64(difficulty)*c.ReductionPerLevelDifficulty
	if cd < c.MinimumSeconds {
		return c.MinimumSeconds
	}
	return cd
}

// WaveScaling is wave_scaling.
type WaveScaling struct {
	EnemyCount    LinearFormula `yaml:"enemy_count"`
	SpawnCooldown SpawnCooldown `yaml:"spawn_cooldown"`
	Budget        LinearFormula `yaml:"budget"`
	SquadDelay    float64       `yaml:"squad_delay"`
}

// DifficultyDef is one entry of difficulty_scaling, keyed by id ("1", "2"...).
type DifficultyDef struct {
	Name                            string  `yaml:"name"`
	MaxWaves                        int     `yaml:"max_waves"`
	TimeBetweenWaves                float64 `yaml:"time_between_waves"`
	LevelDifficultyIncreaseInterval int     `yaml:"level_difficulty_increase_interval"`
	StatModifier                    float64 `yaml:"stat_modifier"`
}

// FormationDef is a named group of enemy types spawned as one squad.
type FormationDef struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
	Delay   float64  `yaml:"delay"`
}

// DirectorDef tunes the adaptive director.
type DirectorDef struct {
	Enabled            bool    `yaml:"enabled"`
	LeakThreshold      float64 `yaml:"leak_threshold"`
	MinSample          int     `yaml:"min_sample"`
	ExploitProbability float64 `yaml:"exploit_probability"`
	ExploitShare       float64 `yaml:"exploit_share"`
	FormationChance    float64 `yaml:"formation_chance"`
	FillerSquadSize    int     `yaml:"filler_squad_size"`
	SampleStep         int     `yaml:"sample_step"`
	BlastWeight        float64 `yaml:"blast_weight"`
	ShredWeight        float64 `yaml:"shred_weight"`
	CCWeight           float64 `yaml:"cc_weight"`
	// CCEffects are the effect ids counted as crowd control.
	CCEffects []string `yaml:"cc_effects"`
}

// FeatureRange is min..max count of a terrain feature.
type FeatureRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Features are terrain features placed by the level generator.
type Features struct {
	Mountains FeatureRange `yaml:"mountains"`
	Lakes     FeatureRange `yaml:"lakes"`
	Trees     FeatureRange `yaml:"trees"`
}

// LevelStyle is one entry of level_styles.
type LevelStyle struct {
	Name               string   `yaml:"name"`
	Width              int      `yaml:"width"`
	Height             int      `yaml:"height"`
	LevelDifficulty    int      `yaml:"level_difficulty"`
	GenerationAttempts int      `yaml:"generation_attempts"`
	Features           Features `yaml:"features"`
	AllowedBossTypes   []string `yaml:"allowed_boss_types"`
}
