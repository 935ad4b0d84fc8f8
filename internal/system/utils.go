// internal/system/utils.go
package system

import (
	"log"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/effect"
	"go-tower-director/internal/types"
	"go-tower-director/internal/utils"
)

// Applier строит экземпляры эффектов из каталога и накладывает их на тела.
type Applier struct {
	cat    *defs.Catalog
	rng    *utils.PRNGService
	warned map[string]bool
}

func NewApplier(cat *defs.Catalog, rng *utils.PRNGService) *Applier {
	return &Applier{cat: cat, rng: rng, warned: make(map[string]bool)}
}

// Freeze rolls the chance of each ref and returns the instances that passed,
// scaled by the duration and potency multipliers.
func (a *Applier) Freeze(refs []defs.EffectRef, durMul, potMul float64) []component.EffectInstance {
	if len(refs) == 0 {
		return nil
	}
	out := make([]component.EffectInstance, 0, len(refs))
	for _, ref := range refs {
		if !a.rng.Chance(ref.Chance) {
			continue
		}
		out = append(out, instance(ref, durMul, potMul))
	}
	return out
}

func instance(ref defs.EffectRef, durMul, potMul float64) component.EffectInstance {
	return component.EffectInstance{
		ID:       ref.ID,
		Duration: ref.Duration * durMul,
		Potency:  ref.Potency * potMul,
	}
}

// Apply накладывает экземпляр на тело. Отсутствующий в каталоге эффект
// логируется один раз и пропускается.
func (a *Applier) Apply(body *component.Body, inst component.EffectInstance, source types.EntityID, friendly bool) {
	if body == nil || !body.Alive {
		return
	}
	def, ok := a.cat.Effect(inst.ID)
	if !ok {
		if !a.warned[inst.ID] {
			log.Printf("system: unknown status effect %q", inst.ID)
			a.warned[inst.ID] = true
		}
		return
	}
	se := effect.New(inst.ID, def, inst.Duration, inst.Potency, source)
	se.Friendly = friendly
	body.Effects.Apply(se)
	body.Effects.Recompute(&body.Stats)
}

// ApplyAll накладывает набор замороженных эффектов.
func (a *Applier) ApplyAll(body *component.Body, insts []component.EffectInstance, source types.EntityID) {
	for _, inst := range insts {
		a.Apply(body, inst, source, false)
	}
}

// ApplyRef rolls the ref's chance and applies it with the payload multipliers.
func (a *Applier) ApplyRef(body *component.Body, ref defs.EffectRef, p *component.Payload) {
	if !a.rng.Chance(ref.Chance) {
		return
	}
	a.Apply(body, instance(ref, p.DurationMultiplier, p.PotencyMultiplier), p.Source, false)
}

// BuildPayload замораживает атаку башни на момент выстрела.
func (a *Applier) BuildPayload(t *component.Tower) component.Payload {
	atk := &t.Attack
	potMul := atk.EffectPotencyMultiplier * t.Stats.Get(effect.StatEffectPotency)
	durMul := atk.EffectDurationMultiplier
	p := component.Payload{
		Source:               t.ID,
		Damage:               t.Damage(),
		Effects:              a.Freeze(atk.Effects, durMul, potMul),
		Pierce:               atk.Pierce,
		BlastRadius:          atk.BlastRadius,
		SplashRatio:          atk.SplashRatio,
		ArmorShred:           atk.ArmorShred,
		BlastEffects:         a.Freeze(atk.BlastEffects, durMul, potMul),
		OnApplyDamage:        atk.OnApplyDamage,
		BonusDamagePerDebuff: atk.BonusDamagePerDebuff,
		DurationMultiplier:   durMul,
		PotencyMultiplier:    potMul,
	}
	if len(atk.Conditional) > 0 {
		p.Conditional = append([]defs.ConditionalEffect(nil), atk.Conditional...)
	}
	if len(atk.AreaEffects) > 0 {
		p.AreaEffects = append([]defs.AreaEffect(nil), atk.AreaEffects...)
	}
	if atk.Execute != nil {
		ex := *atk.Execute
		p.Execute = &ex
	}
	if atk.DeathExplosion != nil {
		de := *atk.DeathExplosion
		p.DeathExplosion = &de
	}
	return p
}

// nearestUnhit ищет ближайшего живого врага в радиусе, не пораженного снарядом.
func nearestUnhit(candidates []*component.Enemy, center types.Vec2, p *component.Projectile) *component.Enemy {
	var best *component.Enemy
	bestDist := 0.0
	for _, e := range candidates {
		if !e.Alive || p.WasHit(e.ID) {
			continue
		}
		d := e.Pos.DistSq(center)
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}
