// internal/upgrade/upgrade.go
package upgrade

import (
	"errors"
	"fmt"
	"log"
	"math"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
)

var (
	// ErrMaxed is returned when the requested path has no more tiers.
	ErrMaxed = errors.New("upgrade: path maxed out")
	// ErrNotFound is returned for an upgrade id that does not belong to the
	// tower or is not its next tier.
	ErrNotFound = errors.New("upgrade: no such upgrade")
)

// Manager ищет улучшения башен в каталоге и применяет их.
type Manager struct {
	cat *defs.Catalog
}

func NewManager(cat *defs.Catalog) *Manager {
	return &Manager{cat: cat}
}

// Next returns the next tier of path for tower, or nil once the path is
// maxed out or unknown.
func (m *Manager) Next(t *component.Tower, path string) *defs.UpgradeDef {
	def, ok := m.cat.Tower(t.TypeID)
	if !ok {
		log.Printf("upgrade: unknown tower type %q", t.TypeID)
		return nil
	}
	p, ok := def.Upgrades.Path(path)
	if !ok {
		return nil
	}
	tier := tierOf(t, path)
	if tier < 0 || tier >= len(p.Upgrades) {
		return nil
	}
	return &p.Upgrades[tier]
}

// Resolve accepts either a path name or an upgrade id. An id must be the
// next tier of its path.
func (m *Manager) Resolve(t *component.Tower, ref string) (*defs.UpgradeDef, string, error) {
	if ref == defs.PathA || ref == defs.PathB {
		next := m.Next(t, ref)
		if next == nil {
			return nil, ref, ErrMaxed
		}
		return next, ref, nil
	}
	for _, path := range []string{defs.PathA, defs.PathB} {
		if next := m.Next(t, path); next != nil && next.ID == ref {
			return next, path, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %q for tower %s", ErrNotFound, ref, t.TypeID)
}

// Apply mutates the tower's attack block, advances the tier on path and
// books the cost into the tower's investment.
func (m *Manager) Apply(t *component.Tower, u *defs.UpgradeDef, path string) {
	log.Printf("upgrade: applying %s to tower %d", u.ID, t.ID)
	for _, eff := range u.Effects {
		ApplyEffect(&t.Attack, eff)
	}
	switch path {
	case defs.PathA:
		t.TierA++
	case defs.PathB:
		t.TierB++
	}
	t.TotalInvestment += u.Cost
	t.SyncBaseStats()
}

// ApplyEffect runs one typed upgrade effect against an attack block.
func ApplyEffect(a *defs.AttackData, eff defs.UpgradeEffect) {
	switch eff.Kind {
	case defs.UpgradeAddDamage:
		a.Damage += eff.Amount
	case defs.UpgradeAddRange:
		a.Range += eff.Amount
	case defs.UpgradeMultiplyFireRate:
		a.FireRate *= eff.Amount
	case defs.UpgradeSetProjectilesPerShot:
		a.ProjectilesPerShot = int(math.Round(eff.Amount))
	case defs.UpgradeSetPierce:
		a.Pierce = int(math.Round(eff.Amount))
	case defs.UpgradeAddArmorShred:
		a.ArmorShred += eff.Amount
	case defs.UpgradeAddEffect:
		if eff.Effect != nil {
			a.Effects = append(a.Effects, *eff.Effect)
		}
	case defs.UpgradeAddExecuteThreshold:
		if eff.Execute != nil {
			ex := *eff.Execute
			a.Execute = &ex
		}
	case defs.UpgradeMultiplyBlastRadius:
		a.BlastRadius *= eff.Amount
	case defs.UpgradeAddBlastEffect:
		if eff.Effect != nil {
			a.BlastEffects = append(a.BlastEffects, *eff.Effect)
		}
	case defs.UpgradeMultiplyEffectDuration:
		a.EffectDurationMultiplier *= eff.Amount
	case defs.UpgradeMultiplyEffectPotency:
		a.EffectPotencyMultiplier *= eff.Amount
	case defs.UpgradeAddOnApplyDamage:
		a.OnApplyDamage += eff.Amount
	case defs.UpgradeAddOnDeathExplosion:
		if eff.Explosion != nil {
			de := *eff.Explosion
			if de.Effect != nil {
				ref := *de.Effect
				de.Effect = &ref
			}
			a.DeathExplosion = &de
		}
	case defs.UpgradeAddBonusDamagePerDebuff:
		a.BonusDamagePerDebuff += eff.Amount
	case defs.UpgradeAddConditionalEffect:
		if eff.Conditional != nil {
			a.Conditional = append(a.Conditional, *eff.Conditional)
		}
	case defs.UpgradeAddAreaEffectOnHit:
		if eff.Area != nil {
			area := *eff.Area
			if area.Effect != nil {
				ref := *area.Effect
				area.Effect = &ref
			}
			a.AreaEffects = append(a.AreaEffects, area)
		}
	case defs.UpgradeModifyAttackData:
		if eff.Change == nil || !a.Mutate(eff.Change.Field, eff.Change.Op, eff.Change.Amount) {
			log.Printf("upgrade: bad modify_attack_data %+v", eff.Change)
		}
	default:
		log.Printf("upgrade: unknown effect kind %s", eff.Kind)
	}
}

// ApplyTowerStat applies a permanent `modify_tower_stat` bonus to a freshly
// placed tower. The stat is an attack data key and the amount is added.
func ApplyTowerStat(t *component.Tower, stat string, amount float64) bool {
	f, ok := defs.ParseField(stat)
	if !ok {
		log.Printf("upgrade: unknown tower stat %q", stat)
		return false
	}
	t.Attack.Mutate(f, defs.OpAdd, amount)
	t.SyncBaseStats()
	return true
}

func tierOf(t *component.Tower, path string) int {
	if path == defs.PathB {
		return t.TierB
	}
	return t.TierA
}
