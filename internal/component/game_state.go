package component

// GameState — экономика и исход сессии.
type GameState struct {
	Gold     int
	BaseHP   int
	GameOver bool
	Victory  bool
}

// Spend списывает золото, только если его хватает.
func (g *GameState) Spend(amount int) bool {
	if amount < 0 || g.Gold < amount {
		return false
	}
	g.Gold -= amount
	return true
}

func (g *GameState) Earn(amount int) {
	if amount > 0 {
		g.Gold += amount
	}
}

// DamageBase снимает HP базы; конец игры защелкивается при HP <= 0.
func (g *GameState) DamageBase(amount int) {
	g.BaseHP -= amount
	if g.BaseHP <= 0 {
		g.BaseHP = 0
		g.GameOver = true
	}
}

// Over reports whether the session has ended either way.
func (g *GameState) Over() bool { return g.GameOver || g.Victory }
