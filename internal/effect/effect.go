// internal/effect/effect.go
package effect

import (
	"log"
	"math"

	"go-tower-director/internal/config"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/types"
)

const eps = 1e-9

// MinSpeed is the floor for movement speed of a non-stunned entity.
const MinSpeed = config.MinEnemySpeed

// ModOp is the operation of an explicit modifier.
type ModOp int

const (
	OpMultiply ModOp = iota
	OpAdd
)

// Modifier changes one stat during the recompute pass.
type Modifier struct {
	Stat  Stat
	Op    ModOp
	Value float64
}

// StatusEffect is a timed effect instance on one entity.
type StatusEffect struct {
	ID           string
	Kind         defs.EffectKind
	Stacking     defs.Stacking
	Potency      float64
	Remaining    float64
	TickInterval float64
	Source       types.EntityID
	Stun         bool
	// Friendly отмечает баффы союзных аур: они не считаются дебаффами.
	Friendly bool

	stat      Stat
	hasStat   bool
	extra     []Modifier
	tickTimer float64
}

// New builds an instance from its definition. Unknown stats in the
// definition are logged and ignored.
func New(id string, def *defs.StatusEffectDef, duration, potency float64, source types.EntityID) StatusEffect {
	se := StatusEffect{
		ID:        id,
		Kind:      def.Type,
		Stacking:  def.Stacking,
		Potency:   potency,
		Remaining: duration,
		Source:    source,
		Stun:      def.Stun || id == "stun",
	}
	if se.Stacking == "" {
		se.Stacking = defs.StackRefresh
	}
	if def.Type == defs.KindDamageOverTime {
		se.TickInterval = def.Params.TickInterval
		if se.TickInterval <= 0 {
			se.TickInterval = config.DefaultEffectTick
		}
	}
	if def.Params.Stat != "" {
		if st, ok := ParseStat(def.Params.Stat); ok {
			se.stat, se.hasStat = st, true
		} else {
			log.Printf("effect: %s: unknown stat %q", id, def.Params.Stat)
		}
	}
	for _, m := range def.Params.Modifiers {
		st, ok := ParseStat(m.Stat)
		if !ok {
			log.Printf("effect: %s: unknown modifier stat %q", id, m.Stat)
			continue
		}
		op := OpMultiply
		if m.Operation == "add" {
			op = OpAdd
		}
		se.extra = append(se.extra, Modifier{Stat: st, Op: op, Value: m.Value})
	}
	return se
}

// Modifiers returns the main modifier followed by the explicit ones.
func (se *StatusEffect) Modifiers() []Modifier {
	mods := make([]Modifier, 0, len(se.extra)+1)
	if se.hasStat {
		switch se.Kind {
		case defs.KindStatModifier:
			mods = append(mods, Modifier{Stat: se.stat, Op: OpMultiply, Value: se.Potency})
		case defs.KindStatDebuff:
			mods = append(mods, Modifier{Stat: se.stat, Op: OpAdd, Value: -se.Potency})
		}
	}
	return append(mods, se.extra...)
}

func (se *StatusEffect) stack(other StatusEffect) {
	switch se.Stacking {
	case defs.StackPotency, defs.StackIntensity:
		se.Potency += other.Potency
	default:
		se.Potency = math.Max(se.Potency, other.Potency)
	}
	se.Remaining = math.Max(se.Remaining, other.Remaining)
	se.Friendly = se.Friendly && other.Friendly
}

// advance decrements the duration and returns DoT damage for the elapsed time.
func (se *StatusEffect) advance(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	elapsed := math.Min(dt, math.Max(se.Remaining, 0))
	se.Remaining -= dt
	if se.Kind != defs.KindDamageOverTime || se.TickInterval <= 0 {
		return 0
	}
	se.tickTimer += elapsed
	damage := 0.0
	for se.tickTimer >= se.TickInterval-eps {
		se.tickTimer -= se.TickInterval
		damage += se.Potency
	}
	return damage
}

func (se *StatusEffect) expired() bool { return se.Remaining <= eps }

// Engine хранит эффекты одной сущности в порядке наложения.
type Engine struct {
	effects []StatusEffect
}

// Apply stacks onto an existing effect with the same id or appends.
func (e *Engine) Apply(se StatusEffect) {
	if se.Remaining <= 0 {
		return
	}
	for i := range e.effects {
		if e.effects[i].ID == se.ID {
			e.effects[i].stack(se)
			return
		}
	}
	e.effects = append(e.effects, se)
}

// Update advances every effect by dt, drops expired ones, recomputes stats
// and returns the DoT damage accumulated this tick.
func (e *Engine) Update(dt float64, stats *Stats) float64 {
	dot := 0.0
	kept := e.effects[:0]
	for i := range e.effects {
		se := e.effects[i]
		dot += se.advance(dt)
		if se.expired() {
			continue
		}
		kept = append(kept, se)
	}
	// обнуляем хвост, чтобы не держать extra-слайсы удаленных эффектов
	for i := len(kept); i < len(e.effects); i++ {
		e.effects[i] = StatusEffect{}
	}
	e.effects = kept
	if stats != nil {
		e.Recompute(stats)
	}
	return dot
}

// Recompute resets tracked stats to base and replays modifiers in
// insertion order.
func (e *Engine) Recompute(stats *Stats) {
	stats.reset()
	stunned := false
	for i := range e.effects {
		se := &e.effects[i]
		if se.Stun {
			stunned = true
		}
		for _, m := range se.Modifiers() {
			stats.apply(m)
		}
	}
	if stats.tracked[StatSpeed] && !stunned && stats.value[StatSpeed] < MinSpeed {
		stats.value[StatSpeed] = MinSpeed
	}
}

// Has reports whether an effect with id is active.
func (e *Engine) Has(id string) bool {
	for i := range e.effects {
		if e.effects[i].ID == id {
			return true
		}
	}
	return false
}

func (e *Engine) Get(id string) (StatusEffect, bool) {
	for _, se := range e.effects {
		if se.ID == id {
			return se, true
		}
	}
	return StatusEffect{}, false
}

func (e *Engine) Len() int { return len(e.effects) }

// DebuffCount is the number of active hostile effects.
func (e *Engine) DebuffCount() int {
	n := 0
	for i := range e.effects {
		if !e.effects[i].Friendly {
			n++
		}
	}
	return n
}

// Stunned reports whether a stun effect is active.
func (e *Engine) Stunned() bool {
	for i := range e.effects {
		if e.effects[i].Stun {
			return true
		}
	}
	return false
}

// IDs returns active effect ids in insertion order.
func (e *Engine) IDs() []string {
	ids := make([]string, len(e.effects))
	for i, se := range e.effects {
		ids[i] = se.ID
	}
	return ids
}
